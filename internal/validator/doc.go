// Package validator collects input problems found before an install starts.
//
// A [Result] holds [Issue] values of three severities. Errors stop the run,
// warnings are reported and ignored. A [Reporter] renders a Result as text,
// JSON or GitHub Actions annotations:
//
//	result := &validator.Result{}
//	result.AddWarning("stripdown", "has no effect without cache", true)
//	if err := result.Err(); err != nil {
//		return err
//	}
package validator
