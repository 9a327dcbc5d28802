package surplus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type swaggerDoc struct {
	Paths       map[string]map[string]operation `json:"paths"`
	Definitions map[string]struct {
		Properties map[string]any `json:"properties"`
	} `json:"definitions"`
}

type operation struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

func readDoc(t *testing.T) swaggerDoc {
	t.Helper()
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	return doc
}

var routerLine = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)

// annotatedOperations collects summary and description per route from the
// handler comments.
func annotatedOperations(t *testing.T) map[string]operation {
	t.Helper()
	files, err := filepath.Glob("../../internal/surplus/http/*.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	ops := map[string]operation{}
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		src, err := os.ReadFile(f)
		require.NoError(t, err)

		var cur operation
		var desc []string
		for _, line := range strings.Split(string(src), "\n") {
			tag, ok := strings.CutPrefix(line, "//\t@")
			if !ok {
				continue
			}
			switch {
			case strings.HasPrefix(tag, "Summary"):
				cur.Summary = strings.TrimSpace(strings.TrimPrefix(tag, "Summary"))
			case strings.HasPrefix(tag, "Description"):
				desc = append(desc, strings.TrimSpace(strings.TrimPrefix(tag, "Description")))
			case strings.HasPrefix(tag, "Router"):
				m := routerLine.FindStringSubmatch(tag)
				require.NotNil(t, m, tag)
				cur.Description = strings.Join(desc, "\n")
				ops[strings.ToLower(m[2])+" "+m[1]] = cur
				cur, desc = operation{}, nil
			}
		}
	}
	return ops
}

func TestDocMatchesAnnotations(t *testing.T) {
	doc := readDoc(t)
	ops := annotatedOperations(t)
	require.NotEmpty(t, ops)

	for key, want := range ops {
		method, path, _ := strings.Cut(key, " ")
		got, ok := doc.Paths[path][method]
		require.True(t, ok, "%s missing from document", key)
		require.Equal(t, want.Summary, got.Summary, key)
		require.Equal(t, want.Description, got.Description, key)
	}
}

func TestDocAuthenticateResponse(t *testing.T) {
	props := readDoc(t).Definitions["authsdk.AuthenticateResponse"].Properties
	require.Contains(t, props, "token")
	require.Contains(t, props, "expires_at")
	require.NotContains(t, props, "id_token")
}
