package model

// SampleUserID is the fixed scope that serves the read-only demo data of
// the trial mode. It is seeded by the init command.
const SampleUserID = "sample9999"
