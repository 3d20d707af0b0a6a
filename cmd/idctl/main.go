package main

import (
	"fmt"
	"io"
	"os"

	"fedid/engine/actors"
	"fedid/engine/library"
	"fedid/engine/signer"
	"fedid/messaging/conductor"
	"fedid/state/identity"
	json "github.com/nikkolasg/hexjson"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

// Automatically set through -ldflags
var version = "master"

var output io.Writer = os.Stdout

var (
	keyFlag = &cli.StringFlag{
		Name:     "key",
		Usage:    "hex secp256k1 private key",
		Required: true,
	}
	actionFlag = &cli.StringFlag{
		Name:     "action",
		Usage:    "address of the action",
		Required: true,
	}
	signatureFlag = &cli.StringFlag{
		Name:     "signature",
		Usage:    "r || s || v signature as printed by sign",
		Required: true,
	}
	fromFlag = &cli.StringFlag{
		Name:     "from",
		Usage:    "address submitting the transaction",
		Required: true,
	}
	txFlag = &cli.StringFlag{
		Name:  "tx",
		Usage: "file holding the JSON transaction, - for stdin",
		Value: "-",
	}
	journalFlag = &cli.StringFlag{
		Name:  "journal",
		Usage: "journal file, defaults to the one in the engine config",
	}
	identityFlag = &cli.StringFlag{
		Name:     "identity",
		Usage:    "address of the identity",
		Required: true,
	}
	authorityFlag = &cli.StringFlag{
		Name:     "authority",
		Usage:    "address of the authority",
		Required: true,
	}
)

func main() {
	app := &cli.App{
		Name:     "idctl",
		Version:  version,
		Usage:    "keys, signatures and transactions for the identity engine",
		Commands: []*cli.Command{keygenCmd, addressCmd, signCmd, recoverCmd, submitCmd, journalCmd, discloseCmd},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Printf("error: %+v\n", err)
		os.Exit(1)
	}
}

var keygenCmd = &cli.Command{
	Name:  "keygen",
	Usage: "generate a signing key for relationships",
	Action: func(cctx *cli.Context) error {
		k, err := signer.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "key:     %s\naddress: %s\n", k.Hex(), k.Address())
		return nil
	},
}

var addressCmd = &cli.Command{
	Name:  "address",
	Usage: "print the address of a signing key",
	Flags: []cli.Flag{keyFlag},
	Action: func(cctx *cli.Context) error {
		k, err := signer.KeyFromHex(cctx.String(keyFlag.Name))
		if err != nil {
			return err
		}
		fmt.Fprintln(output, k.Address())
		return nil
	},
}

var signCmd = &cli.Command{
	Name:  "sign",
	Usage: "sign an action address the way a relationship's key must",
	Flags: []cli.Flag{keyFlag, actionFlag},
	Action: func(cctx *cli.Context) error {
		k, err := signer.KeyFromHex(cctx.String(keyFlag.Name))
		if err != nil {
			return err
		}
		action, err := library.ParseAddress(cctx.String(actionFlag.Name))
		if err != nil {
			return err
		}
		sig, err := k.Sign(action)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "v: %d\nr: 0x%x\ns: 0x%x\nsignature: %s\n", sig.V, sig.R, sig.S, sig.Hex())
		return nil
	},
}

var recoverCmd = &cli.Command{
	Name:  "recover",
	Usage: "print the address that signed an action",
	Flags: []cli.Flag{actionFlag, signatureFlag},
	Action: func(cctx *cli.Context) error {
		action, err := library.ParseAddress(cctx.String(actionFlag.Name))
		if err != nil {
			return err
		}
		sig, err := library.ParseSignature(cctx.String(signatureFlag.Name))
		if err != nil {
			return err
		}
		addr, err := signer.Recover(action, sig)
		if err != nil {
			return err
		}
		fmt.Fprintln(output, addr)
		return nil
	},
}

var submitCmd = &cli.Command{
	Name:  "submit",
	Usage: "execute a JSON transaction against the journal",
	Flags: []cli.Flag{fromFlag, txFlag, journalFlag},
	Action: func(cctx *cli.Context) error {
		from, err := library.ParseAddress(cctx.String(fromFlag.Name))
		if err != nil {
			return err
		}
		tx, err := readTx(cctx.String(txFlag.Name))
		if err != nil {
			return err
		}
		tx.From = from
		c, err := openConductor(cctx)
		if err != nil {
			return err
		}
		defer c.Close()
		r, err := c.Submit(cctx.Context, tx)
		if err != nil {
			return err
		}
		return printJSON(r)
	},
}

var journalCmd = &cli.Command{
	Name:  "journal",
	Usage: "print every journaled transaction",
	Flags: []cli.Flag{journalFlag},
	Action: func(cctx *cli.Context) error {
		entries, err := conductor.ReadJournal(journalPath(cctx))
		if err != nil {
			return err
		}
		return printJSON(entries)
	},
}

var discloseCmd = &cli.Command{
	Name:  "disclose",
	Usage: "print the relationships an identity discloses to an authority",
	Flags: []cli.Flag{identityFlag, authorityFlag, journalFlag},
	Action: func(cctx *cli.Context) error {
		ident, err := library.ParseAddress(cctx.String(identityFlag.Name))
		if err != nil {
			return err
		}
		authority, err := library.ParseAddress(cctx.String(authorityFlag.Name))
		if err != nil {
			return err
		}
		c, err := openConductor(cctx)
		if err != nil {
			return err
		}
		defer c.Close()
		disclosed, err := identity.RelationshipsTo(ident, authority)
		if err != nil {
			return err
		}
		return printJSON(disclosed)
	},
}

func readTx(name string) (tx conductor.Tx, err error) {
	var b []byte
	if name == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return tx, err
	}
	err = json.Unmarshal(b, &tx)
	return
}

func journalPath(cctx *cli.Context) string {
	if p := cctx.String(journalFlag.Name); p != "" {
		return p
	}
	conf := viper.New()
	actors.InitConfig(conf)
	actors.SetConfig(conf)
	return actors.JournalPath()
}

func openConductor(cctx *cli.Context) (*conductor.Conductor, error) {
	return conductor.Open(journalPath(cctx), nil)
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(output, string(b))
	return nil
}
