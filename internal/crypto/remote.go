package crypto

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// defaultPrivyBaseURL is the production Privy API endpoint.
const defaultPrivyBaseURL = "https://api.privy.io"

// PrivySigner signs typed data through a Privy custodial wallet. The wallet
// address is known at construction time, so Address never performs I/O.
type PrivySigner struct {
	appID      string
	appSecret  string
	walletID   string
	address    string
	baseURL    string
	httpClient *http.Client
}

// PrivyConfig carries the credentials for one Privy custodial wallet.
type PrivyConfig struct {
	AppID     string
	AppSecret string
	WalletID  string

	// WalletAddress is the wallet's Ethereum address.
	WalletAddress string

	// BaseURL overrides the Privy API endpoint. Empty means production.
	BaseURL string
}

// NewPrivySigner creates a signer backed by the Privy wallet API.
func NewPrivySigner(cfg PrivyConfig) (*PrivySigner, error) {
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, fmt.Errorf("crypto: %w: privy app_id and app_secret are required", domain.ErrValidation)
	}
	if cfg.WalletID == "" || cfg.WalletAddress == "" {
		return nil, fmt.Errorf("crypto: %w: privy wallet_id and wallet_address are required", domain.ErrValidation)
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultPrivyBaseURL
	}
	return &PrivySigner{
		appID:     cfg.AppID,
		appSecret: cfg.AppSecret,
		walletID:  cfg.WalletID,
		address:   cfg.WalletAddress,
		baseURL:   base,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Address returns the wallet address configured at construction.
func (p *PrivySigner) Address(_ context.Context) (string, error) {
	return p.address, nil
}

// privyRPCRequest is the wallet RPC envelope for eth_signTypedData_v4.
type privyRPCRequest struct {
	Method string         `json:"method"`
	Params privyRPCParams `json:"params"`
}

type privyRPCParams struct {
	TypedData json.RawMessage `json:"typed_data"`
}

type privyRPCResponse struct {
	Data struct {
		Signature string `json:"signature"`
	} `json:"data"`
}

// SignTypedData submits the typed data to the wallet RPC endpoint and returns
// the signature it produced. Failures are not retried: a duplicate signing
// request against a custodial wallet is worse than a failed one.
func (p *PrivySigner) SignTypedData(ctx context.Context, td TypedData) (string, error) {
	payload, err := marshalTypedData(td)
	if err != nil {
		return "", fmt.Errorf("crypto: %w: %v", domain.ErrSigningFailed, err)
	}

	body, err := json.Marshal(privyRPCRequest{
		Method: "eth_signTypedData_v4",
		Params: privyRPCParams{TypedData: payload},
	})
	if err != nil {
		return "", fmt.Errorf("crypto: %w: encoding request: %v", domain.ErrSigningFailed, err)
	}

	url := fmt.Sprintf("%s/v1/wallets/%s/rpc", p.baseURL, p.walletID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("crypto: %w: building request: %v", domain.ErrSigningFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("privy-app-id", p.appID)
	req.Header.Set("Authorization", "Basic "+p.basicAuth())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("crypto: %w: calling privy: %v", domain.ErrSigningFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("crypto: %w: reading privy response: %v", domain.ErrSigningFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("crypto: %w: privy returned status %d: %s",
			domain.ErrSigningFailed, resp.StatusCode, respBody)
	}

	var parsed privyRPCResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("crypto: %w: parsing privy response: %v", domain.ErrSigningFailed, err)
	}
	if parsed.Data.Signature == "" {
		return "", fmt.Errorf("crypto: %w: privy response missing signature", domain.ErrSigningFailed)
	}
	return parsed.Data.Signature, nil
}

func (p *PrivySigner) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(p.appID + ":" + p.appSecret))
}

// marshalTypedData renders td in the eth_signTypedData_v4 JSON shape. The
// EIP712Domain type is included explicitly because remote signers hash it from
// the declared types rather than assuming the standard layout.
func marshalTypedData(td TypedData) (json.RawMessage, error) {
	type jsonField struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}

	types := map[string][]jsonField{
		"EIP712Domain": {
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		},
	}
	for _, name := range td.TypeNames() {
		fields := make([]jsonField, len(td.Types[name]))
		for i, f := range td.Types[name] {
			fields[i] = jsonField{Name: f.Name, Type: f.Type}
		}
		types[name] = fields
	}

	return json.Marshal(map[string]any{
		"domain": map[string]any{
			"name":              td.Domain.Name,
			"version":           td.Domain.Version,
			"chainId":           td.Domain.ChainID,
			"verifyingContract": td.Domain.VerifyingContract,
		},
		"types":       types,
		"primaryType": td.PrimaryType,
		"message":     td.Message,
	})
}
