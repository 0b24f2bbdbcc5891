package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics returns the topics listed in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	require.NoError(t, err)
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	require.NoError(t, scanner.Err())
	return topics
}

func TestTopicsMatchReadme(t *testing.T) {
	listed := readmeTopics(t)
	for _, topic := range listed {
		_, err := GetTopic(topic)
		assert.NoError(t, err, topic)
	}

	all, err := GetAllTopics()
	require.NoError(t, err)
	assert.ElementsMatch(t, listed, all)

	files, err := filepath.Glob("*.md")
	require.NoError(t, err)
	assert.Len(t, all, len(files)-1)
}

func TestTopicsStartWithATitle(t *testing.T) {
	all, err := GetAllTopics()
	require.NoError(t, err)
	for _, topic := range all {
		content, err := GetTopic(topic)
		require.NoError(t, err)
		src := []byte(content)
		doc := goldmark.DefaultParser().Parse(text.NewReader(src))
		h, ok := doc.FirstChild().(*ast.Heading)
		if assert.True(t, ok, "topic %q does not start with a heading", topic) {
			assert.Equal(t, 1, h.Level, topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	_, err := GetTopic("nope")
	assert.Error(t, err)

	both, err := GetTopics("trades", "savings")
	require.NoError(t, err)
	assert.Contains(t, both, "# Trades")
	assert.Contains(t, both, "# Savings")

	star, err := GetTopic("*")
	require.NoError(t, err)
	assert.Contains(t, star, "# API")
	assert.NotContains(t, star, "# wlt")
}
