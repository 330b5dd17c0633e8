// Package errors provides coded, categorised errors for snakearena.
//
// Each error code maps to a registered template carrying a short message and a longer
// explanation. Codes are grouped by category:
//   - E1xx protocol: envelopes and payloads received over the game channel
//   - E2xx config: configuration files and values
//   - E3xx client: client connection and session errors
//
// # Usage
//
//	err := errors.New("E201").
//	    WithDetail("world.food_count must be positive").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// ERROR E201: Invalid configuration value
//	//
//	//   world.food_count must be positive
//
// ArenaError supports errors.Is and errors.As through Unwrap, and two ArenaErrors with the
// same code compare equal under errors.Is.
package errors
