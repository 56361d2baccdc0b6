package domain

// PayoutPayload is the cleartext request body sent to the gateway's fund
// transfer endpoint, before signing and encryption. Field names follow the
// gateway contract exactly.
type PayoutPayload struct {
	BeneficiaryName    string `json:"ben_name"`
	BeneficiaryPhone   string `json:"ben_phone"`
	BeneficiaryVPA     string `json:"ben_vpa,omitempty"`
	BeneficiaryAccount string `json:"ben_account_number,omitempty"`
	BeneficiaryIFSC    string `json:"ben_ifsc,omitempty"`
	BeneficiaryBank    string `json:"ben_bank_name,omitempty"`
	Amount             string `json:"amount"`
	ReferenceID        string `json:"merchant_reference_id"`
	TransferType       string `json:"transfer_type"`
	APICode            string `json:"apicode"`
	Narration          string `json:"narration"`
	Signature          string `json:"signature"`
}

// Envelope is the encrypted wire format exchanged with the gateway. The
// payload JSON is AES-256-CBC encrypted and base64 encoded into EncData;
// IV carries the 16-character initialization vector in the clear.
type Envelope struct {
	EncData string `json:"encdata"`
	IV      string `json:"iv"`
}

// GatewayResult is the decoded outcome of a gateway call. It is populated
// even on a rejection so callers can persist what the gateway said.
type GatewayResult struct {
	HTTPStatus    int
	Status        string // raw gateway status string
	TransactionID string
	UTR           string
	Message       string
	Balance       string // populated by GetBalance only
	Raw           string // decrypted response body, for the transaction log
}

// GatewayBalance is the gateway-side account balance.
type GatewayBalance struct {
	Balance string `json:"balance"`
	Cached  bool   `json:"cached"`
}
