// Package resp provides the JSON response helpers of the HTTP surface.
//
// Successful reads return the payload as-is. Failures share one shape:
//
//	{
//	  "code": -503,                          // Business code from ecode
//	  "message": "Search backend unavailable",
//	  "errors": "..."                        // Optional details
//	}
//
// The HTTP status is derived from the business code with ecode.ToHTTPStatus.
//
//	resp.Success(c, result)
//	resp.BadRequest(c, "offset must be a non-negative integer")
//	resp.Error(c, err) // classifies search errors
package resp
