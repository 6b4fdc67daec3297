// Package credentials resolves the router login and password from the
// forms accepted on the command line and in configuration.
//
// Three shapes are recognised, tried in this order:
//
//   - a mapping literal: {"login": "admin", "password": "secret"}
//   - a pair literal: ["admin", "secret"] or ("admin", "secret")
//   - a path to a regular file whose first 1024 bytes resolve to one of
//     the shapes above, following at most two levels of files
//
// Literals are decoded leniently: comments and trailing commas are
// ignored, and single quotes or bare words are repaired, so a file
// written as {'login': 'admin', 'password': 'secret'} is accepted.
//
// Resolution never fails loudly. Resolver.Resolve logs the reason and
// returns empty credentials, which the router then rejects.
package credentials
