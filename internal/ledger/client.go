package ledger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	sdktypes "github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/vitanest/vitanest-platform/pkg/logging"
)

// Data types recorded on the ledger.
const (
	DataTypeMedication   = "medication"
	DataTypeAppointment  = "appointment"
	DataTypeHealthRecord = "health_record"
)

const storeMethod = "store_health_data"

// Config holds the Algorand connection settings. An empty Address or zero
// AppID disables the client.
type Config struct {
	Token    string
	Address  string
	AppID    uint64
	Mnemonic string
}

// Client anchors health data events on an Algorand application. It is a
// write-only audit trail: the payload is stored as an application call
// argument, keyed by data type and timestamp. When disabled every call is a
// no-op, so callers never need to branch on configuration.
type Client struct {
	algod   *algod.Client
	appID   uint64
	account crypto.Account
	logger  *logging.Logger
	now     func() time.Time
}

func NewClient(cfg Config, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}

	if cfg.Address == "" || cfg.AppID == 0 {
		logger.Info("ledger disabled, health data will not be anchored")
		return c, nil
	}
	if cfg.Mnemonic == "" {
		return nil, fmt.Errorf("ledger: signing mnemonic is required when an app id is configured")
	}

	sk, err := mnemonic.ToPrivateKey(cfg.Mnemonic)
	if err != nil {
		return nil, fmt.Errorf("ledger: invalid mnemonic: %w", err)
	}
	account, err := crypto.AccountFromPrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("ledger: failed to derive account: %w", err)
	}

	client, err := algod.MakeClient(cfg.Address, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("ledger: failed to create algod client: %w", err)
	}

	c.algod = client
	c.appID = cfg.AppID
	c.account = account
	return c, nil
}

// Enabled reports whether records will actually reach the ledger.
func (c *Client) Enabled() bool {
	return c != nil && c.algod != nil
}

// RecordHealthData anchors one event. It is fire-and-forget: failures are
// logged and swallowed so a ledger outage never blocks the calling request.
func (c *Client) RecordHealthData(ctx context.Context, userID, dataType string, payload any) {
	if !c.Enabled() {
		return
	}

	txID, err := c.submit(ctx, userID, dataType, payload)
	if err != nil {
		c.logger.Error("failed to anchor health data", "error", err, "user_id", userID, "data_type", dataType)
		return
	}
	c.logger.Info("health data anchored", "tx_id", txID, "user_id", userID, "data_type", dataType)
}

func (c *Client) submit(ctx context.Context, userID, dataType string, payload any) (string, error) {
	args, err := buildAppArgs(userID, dataType, payload, c.now())
	if err != nil {
		return "", err
	}

	sp, err := c.algod.SuggestedParams().Do(ctx)
	if err != nil {
		return "", fmt.Errorf("ledger: failed to get suggested params: %w", err)
	}

	note := []byte(fmt.Sprintf("VitaNest-%s-%d", dataType, c.now().UnixMilli()))
	tx, err := transaction.MakeApplicationNoOpTx(
		c.appID, args, nil, nil, nil,
		sp, c.account.Address, note,
		sdktypes.Digest{}, [32]byte{}, sdktypes.ZeroAddress,
	)
	if err != nil {
		return "", fmt.Errorf("ledger: failed to build transaction: %w", err)
	}

	txID, stx, err := crypto.SignTransaction(c.account.PrivateKey, tx)
	if err != nil {
		return "", fmt.Errorf("ledger: failed to sign transaction: %w", err)
	}

	if _, err := c.algod.SendRawTransaction(stx).Do(ctx); err != nil {
		return "", fmt.Errorf("ledger: failed to submit transaction: %w", err)
	}
	return txID, nil
}

// buildAppArgs encodes one record as application call arguments:
// method name, base64 JSON payload, data type, and an RFC 3339 timestamp.
func buildAppArgs(userID, dataType string, payload any, now time.Time) ([][]byte, error) {
	wrapped := map[string]any{
		"user_id": userID,
		"data":    payload,
	}
	data, err := json.Marshal(wrapped)
	if err != nil {
		return nil, fmt.Errorf("ledger: failed to encode payload: %w", err)
	}

	return [][]byte{
		[]byte(storeMethod),
		[]byte(base64.StdEncoding.EncodeToString(data)),
		[]byte(dataType),
		[]byte(now.Format(time.RFC3339)),
	}, nil
}
