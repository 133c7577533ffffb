// Package viz styles diagnostic output for the terminal.
//
// Everything here renders to strings; callers choose the stream. During a
// run that is stderr, since stdout may carry detected records.
//
//   - [Error], [Warning]: prefixed one-line messages
//   - [Metric]: label and value pair for summaries
//   - [ProgressLine]: carriage-return progress line with a bar
package viz
