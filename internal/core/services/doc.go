// Package services implements the driving ports on top of the driven
// ports. All business logic lives here: reading the published catalog,
// submitting contributions, and moderating change requests.
//
// Services depend only on domain types and port interfaces, so every
// behaviour is testable against the in-memory repository fake.
package services
