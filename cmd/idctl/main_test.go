package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fedid/engine/library"
	"fedid/messaging/conductor"
	json "github.com/nikkolasg/hexjson"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func run(t *testing.T, args ...string) string {
	buf := &bytes.Buffer{}
	output = buf
	defer func() { output = os.Stdout }()
	app := &cli.App{
		Name:     "idctl",
		Commands: []*cli.Command{keygenCmd, addressCmd, signCmd, recoverCmd, submitCmd, journalCmd, discloseCmd},
	}
	require.NoError(t, app.Run(append([]string{"idctl"}, args...)))
	return buf.String()
}

func TestAddressSignRecover(t *testing.T) {
	key := "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	require.Equal(t, "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23\n", run(t, "address", "--key", key))

	action := library.AddressFromBytes([]byte("some action")).String()
	out := run(t, "sign", "--key", key, "--action", action)
	var sig string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "signature: ") {
			sig = strings.TrimPrefix(line, "signature: ")
		}
	}
	require.NotEmpty(t, sig)
	require.Equal(t, "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23\n", run(t, "recover", "--action", action, "--signature", sig))
}

func TestSubmitAndJournal(t *testing.T) {
	dir := t.TempDir()
	journal := filepath.Join(dir, "journal.db")
	txFile := filepath.Join(dir, "tx.json")
	require.NoError(t, os.WriteFile(txFile, []byte(`{"kind":"deploy_authority"}`), 0600))
	from := library.AddressFromBytes([]byte("idctl test")).String()

	var r conductor.Receipt
	require.NoError(t, json.Unmarshal([]byte(run(t, "submit", "--from", from, "--tx", txFile, "--journal", journal)), &r))
	require.Equal(t, uint64(1), r.Seq)

	var entries []conductor.Entry
	require.NoError(t, json.Unmarshal([]byte(run(t, "journal", "--journal", journal)), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, conductor.DeployAuthority, entries[0].Tx.Kind)
	require.Equal(t, r.Address, entries[0].Receipt.Address)
}
