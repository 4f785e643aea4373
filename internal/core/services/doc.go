// Package services implements the driving port interfaces.
// Services hold the SharePoint logic and orchestrate calls to driven ports
// (Graph, configuration). The Document Processor and Content Generator keep
// no state between calls.
package services
