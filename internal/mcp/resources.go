package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/filetree/internal/roots"
)

// structureURIPrefix prefixes the structure resource of each fixed path type.
const structureURIPrefix = "filetree://structure/"

// fixedPathTypes are the path types exposed as resources.
var fixedPathTypes = []string{
	roots.TypeFileExplorer,
	roots.TypeRequirements,
	roots.TypeSelf,
}

func (s *Server) registerResources() {
	for _, pathType := range fixedPathTypes {
		s.mcp.AddResource(
			&mcp.Resource{
				Name:        pathType,
				URI:         structureURIPrefix + pathType,
				Description: fmt.Sprintf("Directory structure of the %s tree", pathType),
				MIMEType:    "text/markdown",
			},
			s.makeStructureHandler(pathType),
		)
	}
}

func (s *Server) makeStructureHandler(pathType string) mcp.ResourceHandler {
	return func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return s.readStructure(ctx, pathType)
	}
}

// readStructure renders the current tree of pathType.
func (s *Server) readStructure(ctx context.Context, pathType string) (*mcp.ReadResourceResult, error) {
	entries, err := s.roots.Structure(ctx, pathType)
	if err != nil {
		return nil, MapError(err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      structureURIPrefix + pathType,
				MIMEType: "text/markdown",
				Text:     FormatStructure(pathType, entries),
			},
		},
	}, nil
}
