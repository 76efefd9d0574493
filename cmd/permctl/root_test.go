package main

import (
	"bytes"
	"testing"

	"go-staff-permissions/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs(" 3,1,, 12 ")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 12}, ids)

	ids, err = parseIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = parseIDs("1,x")
	assert.ErrorContains(t, err, `"x"`)

	_, err = parseIDs("0")
	assert.Error(t, err)
}

func TestWritePermissionTable(t *testing.T) {
	var buf bytes.Buffer
	permissions := []model.Permission{
		{ID: 2, Name: "bank.view", Title: "View Bank", Type: model.TypeView},
		{ID: 9, Name: "bank.edit", Title: "Edit Bank", Type: model.TypeEdit},
	}

	require.NoError(t, writePermissionTable(&buf, permissions, func(id int) bool { return id == 2 }))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "Granted")
	assert.Contains(t, string(lines[1]), "bank.view")
	assert.Contains(t, string(lines[1]), "yes")
	assert.NotContains(t, string(lines[2]), "yes")
}

func TestAssignRejectsOverlap(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"assign", "--base-url", "http://127.0.0.1:1", "--staff", "00000000-0000-0000-0000-000000000001", "--grant", "1,2", "--revoke", "2"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "both granted and revoked")
}
