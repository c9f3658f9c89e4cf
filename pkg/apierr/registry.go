package apierr

import "sort"

// DefaultStatusTexts maps HTTP status codes to their reason phrases.
// 218, 419, 420, 449, 509 and 600 are non-standard but common.
var DefaultStatusTexts = map[int]string{
	// 1xx Informational
	100: "Continue",
	101: "Switching Protocols",
	102: "Processing",
	103: "Early Hints",

	// 2xx Success
	200: "Ok",
	201: "Created",
	202: "Accepted",
	203: "Non Authoritative Information",
	204: "No Content",
	205: "Reset Content",
	206: "Partial Content",
	207: "Multi Status",
	208: "Already Reported",
	218: "This Is Fine",
	226: "Im Used",

	// 3xx Redirection
	300: "Multiple Choices",
	301: "Moved Permanently",
	302: "Moved Temporarily",
	303: "See Other",
	304: "Not Modified",
	305: "Use Proxy",
	307: "Temporary Redirect",
	308: "Permanent Redirect",

	// 4xx Client errors
	400: "Bad Request",
	401: "Unauthorized",
	402: "Payment Required",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	407: "Proxy Authentication Required",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	411: "Length Required",
	412: "Precondition Failed",
	413: "Request Too Long",
	414: "Request Uri Too Long",
	415: "Unsupported Media Type",
	416: "Requested Range Not Satisfiable",
	417: "Expectation Failed",
	418: "Im A Teapot",
	419: "Insufficient Space On Resource",
	420: "Method Failure",
	421: "Misdirected request",
	422: "Unprocessable Entity",
	423: "Locked",
	424: "Failed Dependency",
	425: "Too Early",
	426: "Upgrade Required",
	428: "Precondition Required",
	429: "Too Many Requests",
	431: "Request Header Fields Too Large",
	449: "Retry With",
	451: "Unavailable For Legal Reasons",

	// 5xx Server errors
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
	505: "Http Version Not Supported",
	506: "Variant Also Negotiates",
	507: "Insufficient Storage",
	508: "Loop Detected",
	509: "Bandwidth Limit Exceeded",
	510: "Not Extended",
	511: "Network Authentication Required",
	600: "Unparseable Response Headers",
}

// DefaultErrnoMessages overrides the status phrase for specific errnos.
// The first 3 digits of each errno equal its HTTP status.
var DefaultErrnoMessages = map[int]string{
	40000: "Unknown Error",
	40005: "Invalid Http Request",
	40099: "Mysql Execute Error",
	40100: "User Require Login",
	40300: "User Forbidden/Unauthorized",
	40400: "Source Not Found",
	40900: "SqlError: You should not insert a duplicated item to database",
}

// Registry is a read-only code -> text table. It is safe for concurrent
// use because nothing mutates it after construction.
type Registry struct {
	entries map[int]string
}

// NewRegistry copies m into a new Registry.
func NewRegistry(m map[int]string) *Registry {
	entries := make(map[int]string, len(m))
	for k, v := range m {
		entries[k] = v
	}
	return &Registry{entries: entries}
}

// DefaultStatusRegistry returns a registry holding DefaultStatusTexts.
func DefaultStatusRegistry() *Registry { return NewRegistry(DefaultStatusTexts) }

// DefaultErrnoRegistry returns a registry holding DefaultErrnoMessages.
func DefaultErrnoRegistry() *Registry { return NewRegistry(DefaultErrnoMessages) }

// Lookup returns the text registered for code.
func (r *Registry) Lookup(code int) (string, bool) {
	if r == nil {
		return "", false
	}
	text, ok := r.entries[code]
	return text, ok
}

// Has reports whether code is registered.
func (r *Registry) Has(code int) bool {
	_, ok := r.Lookup(code)
	return ok
}

// Extend returns a new Registry with overrides applied on top of r.
// r itself is left untouched.
func (r *Registry) Extend(overrides map[int]string) *Registry {
	out := NewRegistry(nil)
	if r != nil {
		for k, v := range r.entries {
			out.entries[k] = v
		}
	}
	for k, v := range overrides {
		out.entries[k] = v
	}
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Codes returns the registered codes in ascending order.
func (r *Registry) Codes() []int {
	if r == nil {
		return nil
	}
	codes := make([]int, 0, len(r.entries))
	for k := range r.entries {
		codes = append(codes, k)
	}
	sort.Ints(codes)
	return codes
}
