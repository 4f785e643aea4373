// Package domain defines the core business entities for sharepoint-mcp.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: bytes fetched from a document library plus their filename
//   - ProcessedContent: the bounded, agent-facing preview of a document
//   - Site, Drive, DriveItem, List, Page: SharePoint resources as the
//     service layer sees them
//   - ColumnDefinition, PageLayout: templates produced by the content generator
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
