package codeblocks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"porridge/internal/models"
)

const reply = "Here you go:\n\n```go\nfunc main() {\n\tprintln(\"hi\")\n}\n```\n\nand a shell one:\n\n```\nls -la\n```\n"

func TestExtract(t *testing.T) {
	blocks := Extract(reply)
	require.Len(t, blocks, 2)
	require.Equal(t, "go", blocks[0].Language)
	require.Equal(t, "func main() {\n\tprintln(\"hi\")\n}", blocks[0].Code)
	require.Equal(t, "", blocks[1].Language)
	require.Equal(t, "ls -la", blocks[1].Code)
}

func TestExtractIgnoresInlineCode(t *testing.T) {
	require.Empty(t, Extract("use `go test` to run"))
}

func TestFromMessagesSkipsUserAndErrors(t *testing.T) {
	msgs := []models.Message{
		models.NewMessage(models.AuthorUser, "```\nmine\n```"),
		models.NewMessage(models.ModelAuthor("echo"), reply),
		models.NewMessageWithType(models.AuthorPorridge, models.MessageError, "```\nboom\n```"),
	}
	blocks := FromMessages(msgs)
	require.Len(t, blocks, 2)
	require.Equal(t, "ls -la", blocks[1].Code)
}

func TestPick(t *testing.T) {
	blocks := Extract(reply)

	b, err := Pick(blocks, 0)
	require.NoError(t, err)
	require.Equal(t, "ls -la", b.Code)

	b, err = Pick(blocks, 1)
	require.NoError(t, err)
	require.Equal(t, "go", b.Language)

	_, err = Pick(blocks, 3)
	require.Error(t, err)

	_, err = Pick(nil, 0)
	require.Error(t, err)
}
