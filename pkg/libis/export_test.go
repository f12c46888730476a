package libis

// This file is only for test purpose and is only loaded by test framework.

// ParseSnapshot exposes the stream payload decoder.
var ParseSnapshot = parseSnapshot
