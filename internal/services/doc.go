// Package services defines shared utilities consumed by the merge tiers
// and the dataset walker.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     (recoverable tier failures vs terminal sample failures).
//   - A thin command-execution abstraction that makes external tool
//     invocations testable.
package services
