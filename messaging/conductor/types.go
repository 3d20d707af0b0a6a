package conductor

import (
	"errors"
	"time"

	"fedid/engine/library"
	"fedid/state/actions"
	"fedid/state/authorities"
)

var ErrClosed = errors.New("conductor is closed")
var ErrUnknownTx = errors.New("unknown transaction kind")
var ErrJournalFailed = errors.New("journal failed, conductor no longer accepts submissions")

type TxKind string

const (
	DeployAuthority    TxKind = "deploy_authority"
	CreateRelationship TxKind = "create_relationship"
	CreateIdentity     TxKind = "create_identity"
	CreateAction       TxKind = "create_action"
	Handle             TxKind = "handle"
	Request            TxKind = "request"
)

// Tx is one state change. Which fields matter depends on Kind:
//
//	DeployAuthority     From
//	CreateRelationship  From, Authority, Mask, SigningKey
//	CreateIdentity      From, Relationships
//	CreateAction        From, Target, ActionKind, Single, Relationships
//	Handle              From, Identity, Action, Proof, Signature
//	Request             From, Authority, Identity, Mask
type Tx struct {
	Kind          TxKind            `json:"kind"`
	From          library.Address   `json:"from"`
	Authority     library.Address   `json:"authority"`
	Identity      library.Address   `json:"identity"`
	Target        library.Address   `json:"target"`
	SigningKey    library.Address   `json:"signing_key"`
	Single        library.Address   `json:"single"`
	Action        library.Address   `json:"action"`
	Proof         library.Address   `json:"proof"`
	ActionKind    actions.Kind      `json:"action_kind"`
	Mask          []byte            `json:"mask,omitempty"`
	Relationships []library.Address `json:"relationships"`
	Signature     library.Signature `json:"signature"`
}

// Receipt is returned for every accepted Tx and is journaled alongside it.
type Receipt struct {
	Seq     uint64               `json:"seq"`
	Nonce   uint64               `json:"nonce"`
	Address library.Address      `json:"address"`
	Request *authorities.Request `json:"request,omitempty"`
	At      time.Time            `json:"at"`
}

// Entry is one record of the journal.
type Entry struct {
	Tx      Tx      `json:"tx"`
	Receipt Receipt `json:"receipt"`
}
