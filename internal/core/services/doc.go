// Package services implements the use cases behind the driving ports:
// document ingestion, grounded generation, and library management.
// Services depend only on domain types and driven port interfaces.
package services
