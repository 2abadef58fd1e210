// Package errors provides structured error types for better observability
// and programmatic error handling across hostmap.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeQueryFailed,
//	    "failed to query schedd ads",
//	    cause,
//	    map[string]any{
//	        "collector": host,
//	        "schedd":    schedd,
//	    },
//	)
//
// Use CodeOf or IsCode to classify an error returned through several layers
// of fmt.Errorf("...: %w", err) wrapping.
package errors
