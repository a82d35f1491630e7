package analysis

import (
	"strconv"
	"strings"
	"testing"

	"repocopilot/internal/githubapi"
	"repocopilot/internal/structure"
)

const flaskFixture = `import os
from flask import Flask

app = Flask(__name__)

class Config(BaseSettings):
    debug = False

@app.route("/health")
def health():
    return "ok"
`

func TestExplainFileInventory(t *testing.T) {
	snap := snapWith(map[string]string{"app.py": flaskFixture}, "app.py")

	ex, err := ExplainFile(snap, "", "")
	if err != nil {
		t.Fatalf("ExplainFile: %v", err)
	}
	if ex.Path != "app.py" || ex.Language != "python" {
		t.Fatalf("explanation = %s/%s", ex.Path, ex.Language)
	}
	if len(ex.Imports) != 2 {
		t.Fatalf("imports = %v", ex.Imports)
	}
	if ex.Imports[1].From != "flask" || ex.Imports[1].Names != "Flask" {
		t.Fatalf("imports[1] = %+v", ex.Imports[1])
	}
	if len(ex.Classes) != 1 || ex.Classes[0].Name != "Config" || ex.Classes[0].Parent != "BaseSettings" {
		t.Fatalf("classes = %+v", ex.Classes)
	}
	if len(ex.Functions) != 1 || ex.Functions[0].Name != "health" {
		t.Fatalf("functions = %+v", ex.Functions)
	}

	hasRoutes := false
	for _, p := range ex.Patterns {
		if p == "Web API routes" {
			hasRoutes = true
		}
	}
	if !hasRoutes {
		t.Fatalf("patterns = %v, want Web API routes", ex.Patterns)
	}
	if !strings.Contains(ex.Purpose, "Flask") {
		t.Fatalf("Purpose = %q", ex.Purpose)
	}
}

func TestExplainFileTestPurpose(t *testing.T) {
	snap := snapWith(map[string]string{"test_app.py": "import pytest\n\ndef test_ok():\n    assert True\n"}, "")

	ex, err := ExplainFile(snap, "", "")
	if err != nil {
		t.Fatalf("ExplainFile: %v", err)
	}
	if !strings.Contains(ex.Purpose, "Test file") {
		t.Fatalf("Purpose = %q", ex.Purpose)
	}
}

func TestRenderTreeLayout(t *testing.T) {
	root := structure.BuildTree([]githubapi.RemoteFile{
		{Path: "src/app.py", Name: "app.py", Kind: githubapi.KindFile},
		{Path: "src/util.py", Name: "util.py", Kind: githubapi.KindFile},
		{Path: "README.md", Name: "README.md", Kind: githubapi.KindFile},
	})

	out := RenderTree(root, 3)
	if !strings.Contains(out, "📄 README.md") {
		t.Fatalf("missing README in:\n%s", out)
	}
	if !strings.Contains(out, "📁 src/") {
		t.Fatalf("missing src dir in:\n%s", out)
	}
	// Files sort ahead of directories at each level.
	if strings.Index(out, "README.md") > strings.Index(out, "src/") {
		t.Fatalf("files should precede directories:\n%s", out)
	}
	if !strings.Contains(out, "└── 📄 util.py") {
		t.Fatalf("last child connector wrong:\n%s", out)
	}
}

func TestRenderTreeDepthLimit(t *testing.T) {
	root := structure.BuildTree([]githubapi.RemoteFile{
		{Path: "a/b/c/deep.py", Name: "deep.py", Kind: githubapi.KindFile},
	})

	out := RenderTree(root, 2)
	if strings.Contains(out, "deep.py") {
		t.Fatalf("depth limit not applied:\n%s", out)
	}
	if !strings.Contains(out, "📁 b/") {
		t.Fatalf("expected second level dir:\n%s", out)
	}
	if RenderTree(nil, 3) != "" {
		t.Fatal("nil tree should render empty")
	}
}

func TestRenderTreeTruncation(t *testing.T) {
	var files []githubapi.RemoteFile
	for i := 0; i < 300; i++ {
		name := strings.Repeat("x", 20) + "_" + strconv.Itoa(i) + ".py"
		files = append(files, githubapi.RemoteFile{Path: name, Name: name, Kind: githubapi.KindFile})
	}
	out := RenderTree(structure.BuildTree(files), 3)
	if !strings.Contains(out, "... (truncated)") {
		t.Fatal("expected truncation marker")
	}
	if lines := strings.Count(out, "\n"); lines > treeTruncateLines+1 {
		t.Fatalf("output has %d lines after truncation", lines)
	}
}
