// Package ecode defines business error codes used by the HTTP surface,
// their human-readable messages and the HTTP status each maps to.
//
// Codes follow the usual numbering scheme:
//   - 0: success
//   - -400 to -499: request errors
//   - -500+: server and backend errors
//
// Usage with the resp package:
//
//	resp.Fail(w, &resp.Exception{
//	    Status:  ecode.ToHTTPStatus(ecode.ParamErr),
//	    Code:    ecode.ParamErr,
//	    Message: ecode.Text(ecode.ParamErr),
//	})
package ecode
