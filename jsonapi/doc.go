// Package jsonapi performs GET requests against JSON web APIs and decodes the
// response into a caller-chosen type.
//
// # Usage
//
//	t, err := transport.NewClient(transport.WithBaseURL("http://localhost:5000/"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	students, err := jsonapi.GetJSON[[]students.StudentListItem](ctx, t, "api/students")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if students == nil {
//		// the API returned a JSON null
//	}
//
// # Processing steps
//
// Every call runs four steps in order and stops at the first failure:
//
//   - Dispatch: the request is sent and only the response headers are awaited
//   - Status: the status code must be in the 200-299 range
//   - Media type: a Content-Type must be declared and must be application/json
//   - Decode: the body is decoded as a stream through the configured Codec
//
// The response body is always closed before GetJSON returns.
//
// # Error Handling
//
// Classified failures are returned as *RequestError and match ErrRequestFailed:
//
//   - ErrInvalidArgument: nil transport or empty request URL
//   - ErrInfrastructure: connectivity, DNS or TLS failure
//   - ErrTimeout: the transport's own timeout elapsed
//   - ErrNonSuccessStatus: status code outside 200-299 (see StatusCode)
//   - ErrEmptyBody: no Content-Type was declared
//   - ErrUnexpectedMediaType: a Content-Type other than application/json (see MediaType)
//   - ErrDeserialization: the body is not valid JSON for the target type
//
// Cancelling ctx is not a classified failure: the transport error is returned
// unchanged and errors.Is(err, context.Canceled) reports true.
//
//	if errors.Is(err, jsonapi.ErrTimeout) {
//		// retry later
//	}
//	if reqErr, ok := jsonapi.AsRequestError(err); ok && reqErr.IsNotFound() {
//		// handle missing resource
//	}
package jsonapi
