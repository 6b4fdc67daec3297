// Package livebox provides a client for the Livebox router JSON-RPC API.
//
// The router exposes a single endpoint, <base>/ws, that accepts POSTed
// envelopes naming a service, a method and its parameters:
//
//	{"service":"NMC","method":"getWANStatus","parameters":{}}
//
// Every call except login must carry the context token returned by
// sah.Device.Information.createContext, both as the X-Context header and
// as the sah/contextId cookie.
//
// # Example Usage
//
//	client, err := livebox.NewClient(livebox.DefaultURL, 10*time.Second, logger)
//	if err != nil {
//	    return err
//	}
//	if !client.Authenticate(ctx, creds) {
//	    os.Exit(1)
//	}
//	status := client.WANStatus(ctx)
//	ip, _ := status.Get(livebox.FieldIPAddress)
//
// Authenticate and WANStatus log failures and return a sentinel (false or
// an empty status). CreateContext and GetWANStatus return coded errors from
// the errors package for callers that need the reason.
package livebox
