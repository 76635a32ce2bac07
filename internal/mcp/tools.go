package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/filetree/internal/roots"
	"github.com/Aman-CERP/filetree/internal/tree"
)

// MaxFileSize is the largest stored file read_file returns (1MB).
const MaxFileSize = 1024 * 1024

// StructureInput defines the input schema for the directory_structure tool.
type StructureInput struct {
	PathType string `json:"path_type" jsonschema:"which tree to scan: file_explorer, requirements_definition, babel or a generated project name"`
	Format   string `json:"format,omitempty" jsonschema:"tree (default) for a rendered outline or json for the entry list"`
}

// StructureOutput defines the output schema for the directory_structure tool.
type StructureOutput struct {
	PathType  string `json:"path_type"`
	Format    string `json:"format"`
	Structure string `json:"structure" jsonschema:"rendered outline or JSON-encoded entries"`
	Files     int    `json:"files"`
	Folders   int    `json:"folders"`
}

// ReadFileInput defines the input schema for the read_file tool.
type ReadFileInput struct {
	Project string `json:"project" jsonschema:"project id; babel for the service's own tree"`
	Name    string `json:"name" jsonschema:"file path relative to the project directory"`
}

// ReadFileOutput defines the output schema for the read_file tool.
type ReadFileOutput struct {
	Project  string `json:"project"`
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Content  string `json:"content"`
}

// ProjectsInput defines the (empty) input schema for generated_projects.
type ProjectsInput struct{}

// ProjectsOutput defines the output schema for generated_projects.
type ProjectsOutput struct {
	Projects []roots.Project `json:"projects"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "directory_structure",
		Description: "Scan a directory tree and return its files and folders, honouring the tree's .gitignore. .git and node_modules are always excluded.",
	}, s.mcpStructureHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "read_file",
		Description: "Read a stored file from a generated project or from the service's own tree.",
	}, s.mcpReadFileHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generated_projects",
		Description: "List generated projects with the path of their frontend app.",
	}, s.mcpProjectsHandler)

	s.logger.Debug("MCP tools registered", slog.Int("count", 3))
}

// mcpStructureHandler is the MCP SDK handler for directory_structure.
func (s *Server) mcpStructureHandler(ctx context.Context, _ *mcp.CallToolRequest, input StructureInput) (
	*mcp.CallToolResult,
	StructureOutput,
	error,
) {
	pathType := strings.TrimSpace(input.PathType)
	if pathType == "" {
		return nil, StructureOutput{}, NewInvalidParamsError("path_type parameter is required")
	}
	format := input.Format
	if format == "" {
		format = FormatTree
	}
	if format != FormatTree && format != FormatJSON {
		return nil, StructureOutput{}, NewInvalidParamsError(fmt.Sprintf("unknown format %q (use tree or json)", format))
	}

	start := time.Now()
	entries, err := s.roots.Structure(ctx, pathType)
	if err != nil {
		s.logger.Warn("directory_structure failed",
			slog.String("path_type", pathType),
			slog.String("error", err.Error()))
		return nil, StructureOutput{}, MapError(err)
	}
	files, folders := tree.Count(entries)
	s.logger.Debug("directory_structure completed",
		slog.String("path_type", pathType),
		slog.Int("files", files),
		slog.Int("folders", folders),
		slog.Duration("duration", time.Since(start)))

	out := StructureOutput{PathType: pathType, Format: format, Files: files, Folders: folders}
	if format == FormatJSON {
		encoded, err := formatStructureJSON(entries)
		if err != nil {
			return nil, StructureOutput{}, MapError(err)
		}
		out.Structure = encoded
	} else {
		out.Structure = FormatStructure(pathType, entries)
	}
	return nil, out, nil
}

// mcpReadFileHandler is the MCP SDK handler for read_file.
func (s *Server) mcpReadFileHandler(_ context.Context, _ *mcp.CallToolRequest, input ReadFileInput) (
	*mcp.CallToolResult,
	ReadFileOutput,
	error,
) {
	if s.files == nil {
		return nil, ReadFileOutput{}, NewInvalidParamsError("file store is not configured")
	}
	if input.Project == "" || input.Name == "" {
		return nil, ReadFileOutput{}, NewInvalidParamsError("project and name parameters are required")
	}

	content, err := s.files.Load(input.Project, input.Name)
	if err != nil {
		return nil, ReadFileOutput{}, MapError(err)
	}
	if len(content) > MaxFileSize {
		return nil, ReadFileOutput{}, &MCPError{
			Code:    ErrCodeFileTooLarge,
			Message: fmt.Sprintf("file too large: %d bytes (max %d)", len(content), MaxFileSize),
		}
	}

	return nil, ReadFileOutput{
		Project:  input.Project,
		Name:     input.Name,
		MIMEType: MimeTypeForPath(input.Name),
		Content:  content,
	}, nil
}

// mcpProjectsHandler is the MCP SDK handler for generated_projects.
func (s *Server) mcpProjectsHandler(ctx context.Context, _ *mcp.CallToolRequest, _ ProjectsInput) (
	*mcp.CallToolResult,
	ProjectsOutput,
	error,
) {
	projects, err := s.roots.GeneratedProjects(ctx)
	if err != nil {
		return nil, ProjectsOutput{}, MapError(err)
	}
	return nil, ProjectsOutput{Projects: projects}, nil
}
