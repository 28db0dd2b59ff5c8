package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribe-kb/scribe/internal/core/domain"
)

func resetGenerateFlags() {
	generateType = ""
	generateTopK = 0
	generateDocuments = nil
	generateFilenames = nil
	generateJSON = false
}

func TestGenerateCmd_Use(t *testing.T) {
	assert.Equal(t, "generate [query]", generateCmd.Use)
}

func TestGenerateCmd_Short(t *testing.T) {
	assert.Equal(t, "Generate content grounded in ingested documents", generateCmd.Short)
}

func TestGenerateCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"generate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestGenerateCmd_HasTypeFlag(t *testing.T) {
	flag := generateCmd.Flags().Lookup("type")
	require.NotNil(t, flag, "type flag should exist")
	assert.Equal(t, "t", flag.Shorthand)
}

func TestGenerateCmd_HasTopKFlag(t *testing.T) {
	flag := generateCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag, "top-k flag should exist")
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestGenerateCmd_PrintsContentAndSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"generate", "Create a FAQ about the remote work policy"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetGenerateFlags()
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Q: What is the policy?")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "policy.txt (chunk 0, 89% relevance)")
	assert.Contains(t, out, "Top match (89% similarity)")
	assert.Contains(t, out, "Model: gpt-4o-mini")
	assert.NotContains(t, out, "Warning:")
}

func TestGenerateCmd_PrintsWarning(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	result := sampleResult()
	result.Warning = "Source documents have low relevance (avg: 34%). Generated content may not fully address your query."
	generateService = &mockGenerateService{result: result}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"generate", "Create a FAQ about the remote work policy"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetGenerateFlags()
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Warning: Source documents have low relevance")
}

func TestGenerateCmd_ForwardsFlags(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"generate",
		"--type", "faq",
		"--top-k", "3",
		"--document", "doc-1",
		"--filename", "policy",
		"Create a FAQ about the remote work policy",
	})
	defer func() {
		rootCmd.SetArgs(nil)
		resetGenerateFlags()
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	mock := generateService.(*mockGenerateService)
	assert.Equal(t, "Create a FAQ about the remote work policy", mock.lastReq.Query)
	assert.Equal(t, domain.GenerationTypeFAQ, mock.lastReq.Type)
	assert.Equal(t, 3, mock.lastReq.TopK)
	assert.Equal(t, []string{"doc-1"}, mock.lastReq.Filter.DocumentIDs)
	assert.Equal(t, []string{"policy"}, mock.lastReq.Filter.Filenames)
}

func TestGenerateCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"generate", "--json", "Create a FAQ about the remote work policy"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetGenerateFlags()
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"Content\"")
	assert.Contains(t, buf.String(), "\"Sources\"")
	assert.Contains(t, buf.String(), "\"Warning\"")
}

func TestGenerateCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	generateService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"generate", "Create a FAQ about the remote work policy"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetGenerateFlags()
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "generate service not configured")
}

func TestGenerateCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	generateService = &mockGenerateService{err: errMock}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"generate", "Create a FAQ about the remote work policy"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetGenerateFlags()
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
}
