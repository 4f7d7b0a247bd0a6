// Package schema loads sample JSON documents and reduces them to an
// observation-based schema: the shapes that were seen, how often object
// fields were present, and where different shapes met in the same position.
//
// The schema describes a sample, not a contract. A field is optional only
// because some sample omitted it; a union exists only because two different
// shapes were observed at one position.
package schema
