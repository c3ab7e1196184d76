// controllers/controllers.go - Package wiring
package controllers

import (
	"github.com/adityapachauri0/pan-sub000/services"
)

var (
	store    services.SubmissionStore
	triage   *services.TriageService
	exporter *services.ExportService
)

// Setup wires the handler package to its collaborators. Called once from
// main (and from tests with in-memory fakes) before routes are registered.
func Setup(s services.SubmissionStore, t *services.TriageService, e *services.ExportService) {
	store = s
	triage = t
	exporter = e
}
