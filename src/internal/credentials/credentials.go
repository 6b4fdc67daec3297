package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/jsonc"

	"github.com/maksimkurb/livebox-wan/src/internal/errors"
	"github.com/maksimkurb/livebox-wan/src/internal/log"
	"github.com/maksimkurb/livebox-wan/src/internal/utils"
)

const (
	// DefaultMaxDepth is how many files may be followed before giving up.
	DefaultMaxDepth = 2
	// MaxFileSize is the number of bytes read from a credentials file.
	MaxFileSize = 1024
)

// Credentials is a router login/password pair.
type Credentials struct {
	Login    string
	Password string
}

// IsEmpty returns true if both fields are empty.
func (c Credentials) IsEmpty() bool {
	return c.Login == "" && c.Password == ""
}

// String hides the password.
func (c Credentials) String() string {
	return fmt.Sprintf("%s:****", c.Login)
}

// Kind tells which input shape produced a result.
type Kind int

const (
	KindInvalid Kind = iota
	KindMapping
	KindPair
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindPair:
		return "pair"
	case KindPath:
		return "path"
	default:
		return "invalid"
	}
}

// Resolver turns a credentials source into Credentials.
type Resolver struct {
	logger   *log.Logger
	maxDepth int
}

// NewResolver creates a resolver that follows at most DefaultMaxDepth files.
// If logger is nil, messages are discarded.
func NewResolver(logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Discard()
	}
	return &Resolver{
		logger:   logger,
		maxDepth: DefaultMaxDepth,
	}
}

// WithMaxDepth returns a copy of the resolver with a different file nesting limit.
func (r *Resolver) WithMaxDepth(depth int) *Resolver {
	return &Resolver{logger: r.logger, maxDepth: depth}
}

// Resolve decodes source and returns the credentials it describes.
//
// On failure an error is logged and empty credentials are returned.
func (r *Resolver) Resolve(source string) Credentials {
	creds, kind, err := r.Decode(source)
	if err != nil {
		r.logger.Errorf("failed to decode credentials: %v", err)
		return Credentials{}
	}
	r.logger.Debugf("credentials for %q decoded from %s", creds.Login, kind)
	return creds
}

// Decode is Resolve with the outcome tag and the reason for a failure.
//
// The returned Kind is the shape of the outermost input: a file holding a
// mapping literal gives KindPath.
func (r *Resolver) Decode(source string) (Credentials, Kind, error) {
	return r.decode(source, r.maxDepth)
}

func (r *Resolver) decode(source string, remaining int) (Credentials, Kind, error) {
	text := strings.TrimSpace(source)
	if text == "" {
		return Credentials{}, KindInvalid, errors.NewCredentialsError("empty credentials source", nil)
	}

	if creds, kind, ok := decodeLiteral(text); ok {
		return creds, kind, nil
	}

	if !utils.IsRegularFile(text) {
		return Credentials{}, KindInvalid, errors.NewCredentialsError(
			"not a login/password literal nor an existing file", nil)
	}
	if remaining <= 0 {
		return Credentials{}, KindInvalid, errors.NewCredentialsError(
			fmt.Sprintf("too many nested credentials files at %s", text), nil)
	}

	content, err := readCredentialsFile(text)
	if err != nil {
		return Credentials{}, KindInvalid, err
	}
	r.logger.Debugf("reading credentials from %s", text)

	creds, _, err := r.decode(string(content), remaining-1)
	if err != nil {
		return Credentials{}, KindInvalid, err
	}
	return creds, KindPath, nil
}

func readCredentialsFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewCredentialsError("failed to open credentials file", err)
	}
	defer file.Close()

	content, err := utils.ReadAtMost(file, MaxFileSize)
	if err != nil {
		return nil, errors.NewCredentialsError("failed to read credentials file", err)
	}
	return content, nil
}

// decodeLiteral tries the mapping shape, then the pair shape. Inputs that
// look like a literal but do not decode are repaired once and retried.
func decodeLiteral(text string) (Credentials, Kind, bool) {
	normalized := tupleToArray(text)

	if creds, kind, ok := decodeJSON(normalized); ok {
		return creds, kind, true
	}

	if !looksLikeLiteral(normalized) {
		return Credentials{}, KindInvalid, false
	}

	repaired, err := jsonrepair.JSONRepair(normalized)
	if err != nil {
		return Credentials{}, KindInvalid, false
	}
	return decodeJSON(repaired)
}

func decodeJSON(text string) (Credentials, Kind, bool) {
	data := jsonc.ToJSON([]byte(text))

	var mapping map[string]interface{}
	if err := json.Unmarshal(data, &mapping); err == nil {
		login, loginOK := mapping["login"].(string)
		password, passwordOK := mapping["password"].(string)
		if loginOK && passwordOK {
			return Credentials{Login: login, Password: password}, KindMapping, true
		}
		return Credentials{}, KindInvalid, false
	}

	var pair []interface{}
	if err := json.Unmarshal(data, &pair); err == nil && len(pair) == 2 {
		login, loginOK := pair[0].(string)
		password, passwordOK := pair[1].(string)
		if loginOK && passwordOK {
			return Credentials{Login: login, Password: password}, KindPair, true
		}
	}

	return Credentials{}, KindInvalid, false
}

// tupleToArray rewrites ("a", "b") as ["a", "b"].
func tupleToArray(text string) string {
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		return "[" + text[1:len(text)-1] + "]"
	}
	return text
}

func looksLikeLiteral(text string) bool {
	return (strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}")) ||
		(strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"))
}
