// Package triage provides the business boundary for Vortex's ticket triage
// engine. It defines the Engine (the pure pipeline: redaction, metadata
// extraction, semantic classification with degradation, risk rule cascade,
// action recommendation, reply generation), the Service (intake, lifecycle,
// privacy-filtered listings), the Store interface, and domain models.
package triage
