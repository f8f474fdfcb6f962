package docs

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Kinds of runnable code blocks in the documentation.
//
//   - "bash setup" starts a new scenario in an empty folder, and must succeed.
//   - "bash run" must succeed, and its output is kept for the next "console check".
//   - "console check" is the expected output of the previous "bash run".
//   - "bash check" must succeed.
const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
	bashCheck    = "bash check"
)

// topicLine matches the topics listed in readme.md, like "* returns: how ...".
var topicLine = regexp.MustCompile(`^\*\s+([^:]+):.*$`)

func readmeTopics(t *testing.T) []string {
	t.Helper()
	f, err := os.Open(index + ".md")
	require.NoError(t, err)
	defer f.Close()

	var topics []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := topicLine.FindStringSubmatch(scanner.Text()); m != nil {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	require.NoError(t, scanner.Err())
	return topics
}

func TestTopics(t *testing.T) {
	listed := readmeTopics(t)
	for _, topic := range listed {
		_, err := GetTopic(topic)
		assert.NoError(t, err, "topic %q is listed in readme.md", topic)
	}

	all, err := GetAllTopics()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for _, topic := range all {
		assert.True(t, slices.Contains(listed, topic), "topic %q is not listed in readme.md", topic)
	}
	assert.NotContains(t, all, index)
}

func TestGetTopics(t *testing.T) {
	all, err := GetAllTopics()
	require.NoError(t, err)

	content, err := GetTopic("*")
	require.NoError(t, err)
	for _, topic := range all {
		title, err := Title(topic)
		require.NoError(t, err)
		assert.Contains(t, content, "# "+title)
	}

	_, err = GetTopic("nope")
	assert.Error(t, err)

	title, err := Title("records")
	require.NoError(t, err)
	assert.Equal(t, "Records", title)
}

func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	require.NoError(t, err)
	files = append(files, "../README.md")

	bin := buildViewprofit(t)
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			blocks := parseBlocks(t, file)
			if len(blocks) == 0 {
				return
			}
			s := scenario{
				// no user configuration.
				env: []string{
					fmt.Sprintf("PATH=%s%c%s", bin, os.PathListSeparator, os.Getenv("PATH")),
					"HOME=" + t.TempDir(),
					"XDG_CONFIG_HOME=" + t.TempDir(),
				},
				dir: t.TempDir(),
			}
			for _, b := range blocks {
				s.run(t, b)
			}
		})
	}
}

// block is a runnable fenced code block.
type block struct {
	kind    string
	content string
	file    string
	line    int
}

func (b block) String() string { return fmt.Sprintf("%s:%d: %s", b.file, b.line, b.kind) }

// buildViewprofit builds the viewprofit executable and returns its folder.
func buildViewprofit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	build := exec.Command("go", "build", "-o", filepath.Join(dir, "viewprofit"), "../viewprofit/")
	build.Stderr = os.Stderr
	require.NoError(t, build.Run(), "cannot build viewprofit")
	return dir
}

// parseBlocks returns the runnable blocks of a markdown file, in order.
func parseBlocks(t *testing.T, file string) []block {
	t.Helper()
	source, err := os.ReadFile(file)
	require.NoError(t, err)

	var blocks []block
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fcb.Info.Segment.Value(source))
		switch kind {
		case bashSetup, bashRun, consoleCheck, bashCheck:
		default:
			return ast.WalkContinue, nil
		}
		var content strings.Builder
		lines := fcb.Lines()
		for i := range lines.Len() {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		blocks = append(blocks, block{
			kind:    kind,
			content: content.String(),
			file:    file,
			line:    bytes.Count(source[:fcb.Info.Segment.Start], []byte("\n")) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// scenario runs the blocks of a file one after the other.
type scenario struct {
	env    []string
	dir    string
	output string // of the last "bash run"
}

func (s *scenario) run(t *testing.T, b block) {
	t.Helper()
	if b.kind == consoleCheck {
		want := strings.TrimSpace(b.content)
		got := strings.TrimSpace(s.output)
		if want != got {
			t.Errorf("%v: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q\n", b, got, want, got, want)
		}
		return
	}
	if b.kind == bashSetup {
		s.dir = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+b.content)
	cmd.Dir = s.dir
	cmd.Env = s.env
	output, err := cmd.CombinedOutput()
	if b.kind == bashRun {
		s.output = string(output)
	}
	if err == nil {
		return
	}
	if b.kind == bashCheck {
		t.Errorf("%v failed: %v with output:\n%s", b, err, output)
		return
	}
	t.Fatalf("%v failed: %v with output:\n%s", b, err, output)
}
