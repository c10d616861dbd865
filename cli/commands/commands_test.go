package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/query-serializer/query/executor"
)

func createShopDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")

	e, err := executor.Open(context.Background(), "sqlite", path)
	require.NoError(t, err)
	defer e.Close()

	for _, stmt := range []string{
		`CREATE TABLE customer (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE purchase (id INTEGER PRIMARY KEY, customer_id INT)`,
		`INSERT INTO customer (id, name) VALUES (1, 'Jason'), (2, 'Ann')`,
		`INSERT INTO purchase (id, customer_id) VALUES (5, 1), (10, 1)`,
	} {
		_, err := e.DB().Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestSerializeCommand(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := createShopDB(t)

	out, err := runCommand(t, "serialize",
		"--url", path,
		"-q", `SELECT customer.id AS id, customer.name AS name, purchase.id AS "purchases[]__id"
			FROM customer LEFT JOIN purchase ON purchase.customer_id = customer.id
			{filter}
			ORDER BY customer.id, purchase.id`,
		"--where", "customer.id = ?",
		"--param", "1",
	)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"name":"Jason","purchases":[{"id":5},{"id":10}]}]`+"\n", out)
}

func TestParseCommand(t *testing.T) {
	out, err := runCommand(t, "parse", "id", "organization__name", "purchases[]__id")
	require.NoError(t, err)
	assert.Contains(t, out, "organization.name")
	assert.Contains(t, out, `"purchases[]__id"`)
}

func TestParseCommand_InvalidColumn(t *testing.T) {
	_, err := runCommand(t, "parse", "organization__tags[]")
	assert.Error(t, err)
}

func TestSyntaxCommand_Raw(t *testing.T) {
	out, err := runCommand(t, "syntax", "--raw")
	require.NoError(t, err)
	assert.Equal(t, syntaxGuide, out)
}
