package analysis

import (
	"errors"
	"strings"
	"testing"
)

const serviceFixture = `import asyncio

class UserService:
    def __init__(self, db):
        self.db = db

def load_user(user_id, include_posts=False):
    return None

async def refresh_cache():
    return True
`

func TestGenerateTestsSkeleton(t *testing.T) {
	snap := snapWith(map[string]string{"service.py": serviceFixture}, "service.py")

	plan, err := GenerateTests(snap, "", "", "")
	if err != nil {
		t.Fatalf("GenerateTests: %v", err)
	}
	if plan.Framework != "pytest" {
		t.Fatalf("Framework = %q", plan.Framework)
	}
	if plan.Module != "service" {
		t.Fatalf("Module = %q", plan.Module)
	}
	wantFuncs := map[string]bool{"__init__": true, "load_user": true, "refresh_cache": true}
	for _, f := range plan.Functions {
		if !wantFuncs[f] {
			t.Fatalf("unexpected function %q", f)
		}
	}
	if len(plan.Classes) != 1 || plan.Classes[0] != "UserService" {
		t.Fatalf("Classes = %v", plan.Classes)
	}

	src := plan.Source
	for _, want := range []string{
		"import pytest",
		"class TestLoadUser:",
		"def test_load_user_success(self):",
		"user_id = None  # TODO: Set value",
		"load_user(user_id, include_posts)",
		"@pytest.mark.asyncio",
		"async def test_refresh_cache_success(self):",
		"await refresh_cache()",
		"class TestUserService:",
		"@pytest.fixture",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("generated source missing %q:\n%s", want, src)
		}
	}
}

func TestGenerateTestsStripsAnnotationsAndSelf(t *testing.T) {
	got := splitParams("self, user_id: int, name: str = \"x\"")
	if len(got) != 2 || got[0] != "user_id" || got[1] != "name" {
		t.Fatalf("splitParams = %v", got)
	}
	if got := splitParams(""); len(got) != 0 {
		t.Fatalf("splitParams(\"\") = %v", got)
	}
}

func TestGenerateTestsNoTargets(t *testing.T) {
	snap := snapWith(map[string]string{"data.py": "VERSION = 1\n"}, "data.py")
	_, err := GenerateTests(snap, "", "", "pytest")
	if !errors.Is(err, ErrNoTestTargets) {
		t.Fatalf("err = %v, want ErrNoTestTargets", err)
	}
}

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"load_user":     "LoadUser",
		"refresh_cache": "RefreshCache",
		"a":             "A",
		"__init__":      "Init",
	}
	for in, want := range cases {
		if got := camelCase(in); got != want {
			t.Fatalf("camelCase(%q) = %q, want %q", in, got, want)
		}
	}
}
