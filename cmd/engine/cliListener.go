package main

import (
	"context"
	"fmt"

	"fedid/engine/actors"
	"fedid/engine/helpers"
	"fedid/engine/signer"
	"fedid/messaging/conductor"
	"fedid/state"
	"fedid/state/authorities"
	"fedid/state/identity"
	"fedid/state/relationships"
	"fedid/state/replay"
	"github.com/davecgh/go-spew/spew"
	"github.com/eiannone/keyboard"
	json "github.com/nikkolasg/hexjson"
)

// cliListener is a cheap and nasty way to speed up development cycles. It listens for keypresses and executes commands.
func cliListener(ctx context.Context, c *conductor.Conductor, interrupt chan struct{}) {
	fmt.Println("VIEW CURRENT STATE:\na: authorities\nr: relationships\ni: identities and what they disclose\nR: replay ledger\ns: full state snapshot\nw: current wallet\nc: engine config\nd: run the demo flow\nq: to quit\nSee cliListener.go for more")
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			panic(err)
		}
		str := string(r)
		switch str {
		default:
			if k == keyboard.KeyEnter {
				fmt.Println("\n-----------------------------------")
				break
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to any test procedures. See main.cliListener for more details.")
		case "q":
			close(interrupt)
			return
		case "a":
			for address, a := range authorities.GetMap() {
				fmt.Printf("\nAUTHORITY: %s deployed by %s\n", address, a.Deployer)
				for _, req := range authorities.Requests(address) {
					fmt.Printf("  request %s for identity %s mask %q at %s\n", req.ID, req.Identity, req.Mask, req.At)
				}
			}
		case "r":
			for address, rel := range relationships.GetMap() {
				fmt.Printf("\nRELATIONSHIP: %s\nAuthority: %s\nMask: %q\nSigning key: %s\n", address, rel.Authority, rel.Mask(), rel.SigningKey)
			}
		case "i":
			for address, i := range identity.GetMap() {
				fmt.Printf("\nIDENTITY: %s\nRelationships: %v\n", address, i.Relationships)
				for authority := range authorities.GetMap() {
					disclosed, err := identity.RelationshipsTo(address, authority)
					if err == nil && len(disclosed) > 0 {
						fmt.Printf("  discloses to %s: %v\n", authority, disclosed)
					}
				}
			}
		case "R":
			fmt.Printf("Replay protection enabled: %v\nState hash: %s\n", replay.Enabled(), replay.GetStateHash())
			spew.Dump(replay.GetMap())
		case "s":
			snapshot := state.Current()
			b, err := json.MarshalIndent(struct {
				State       state.Snapshot `json:"state"`
				Disclosures any            `json:"disclosures"`
			}{snapshot, snapshot.Disclosures()}, "", "  ")
			if err != nil {
				fmt.Println(err)
				break
			}
			fmt.Println(string(b))
		case "w":
			fmt.Printf("Current Wallet: \n%s\n", actors.MyWallet().Account)
		case "c":
			fmt.Println("CURRENT CONFIG")
			for k, v := range actors.MakeOrGetConfig().AllSettings() {
				fmt.Printf("\nKey: %s; Value: %v\n", k, v)
			}
		case "d":
			key, err := signer.GenerateKey()
			if err != nil {
				fmt.Println(err)
				break
			}
			d, err := helpers.RunDemo(ctx, c, key.Address(), key)
			if err != nil {
				fmt.Println(err)
				break
			}
			fmt.Printf("\nDemo identity %s now discloses %s and %s to authority %s\n", d.Identity, d.First, d.Second, d.Authority)
		}
	}
}
