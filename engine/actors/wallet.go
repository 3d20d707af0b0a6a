package actors

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"fedid/engine/library"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/nbd-wtf/go-nostr/nip06"
	"github.com/sasha-s/go-deadlock"
)

var currentWallet library.Wallet
var currentWalletMutex = &deadlock.Mutex{}

// MyWallet returns the node's nostr wallet, restoring it from disk or creating a new one.
// The wallet only signs the notifications this node republishes to relays; it never
// authorizes identity actions.
func MyWallet() library.Wallet {
	currentWalletMutex.Lock()
	defer currentWalletMutex.Unlock()
	if len(currentWallet.PrivateKey) == 0 {
		if w, ok := getWalletFromDisk(); ok {
			currentWallet = w
		} else {
			library.LogCLI("Generating a new node wallet", 4)
			w, err := makeNewWallet()
			if err != nil {
				library.LogCLI(err.Error(), 0)
				return library.Wallet{}
			}
			currentWallet = w
			if err := persistCurrentWallet(); err != nil {
				library.LogCLI(err.Error(), 1)
			}
		}
	}
	return currentWallet
}

func makeNewWallet() (w library.Wallet, e error) {
	seedWords, err := nip06.GenerateSeedWords()
	if err != nil {
		return w, err
	}
	seed := nip06.SeedFromWords(seedWords)
	sk, err := nip06.PrivateKeyFromSeed(seed)
	if err != nil {
		return w, err
	}
	w, err = WalletFromPrivateKey(sk)
	w.SeedWords = seedWords
	return w, err
}

// WalletFromPrivateKey builds a wallet around an existing hex nostr private key.
func WalletFromPrivateKey(sk string) (library.Wallet, error) {
	account, err := getPubKey(sk)
	if err != nil {
		return library.Wallet{}, err
	}
	return library.Wallet{PrivateKey: sk, Account: account}, nil
}

// getPubKey returns the x-only public key nostr uses as an account.
func getPubKey(privateKey string) (string, error) {
	keyb, err := hex.DecodeString(privateKey)
	if err != nil {
		return "", fmt.Errorf("error decoding key from hex: %w", err)
	}
	_, pubkey := btcec.PrivKeyFromBytes(keyb)
	return hex.EncodeToString(pubkey.SerializeCompressed()[1:]), nil
}

func walletFile() string {
	return MakeOrGetConfig().GetString("rootDir") + "wallet.dat"
}

func persistCurrentWallet() error {
	b, err := json.Marshal(currentWallet)
	if err != nil {
		return err
	}
	return os.WriteFile(walletFile(), b, 0600)
}

func getWalletFromDisk() (w library.Wallet, ok bool) {
	file, err := os.ReadFile(walletFile())
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error getting wallet file: %s", err.Error()), 3)
		return library.Wallet{}, false
	}
	err = json.Unmarshal(file, &w)
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error parsing wallet file: %s", err.Error()), 2)
		return library.Wallet{}, false
	}
	return w, len(w.PrivateKey) > 0
}
