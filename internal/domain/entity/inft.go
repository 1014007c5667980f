package entity

// INFT is an Intelligent NFT minted by the platform's Move package.
type INFT struct {
	ObjectID           string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	ImageURL           string `json:"imageUrl"`
	PublicMetadataURI  string `json:"publicMetadataUri"`
	PrivateMetadataURI string `json:"privateMetadataUri"`
	AtomaModelID       string `json:"atomaModelId"`
	InteractionCount   int64  `json:"interactionCount"`
	EvolutionStage     int64  `json:"evolutionStage"`
	Owner              string `json:"owner"`
}

// MintRequest carries the user input of a mint.
type MintRequest struct {
	Owner            string
	Name             string
	Description      string
	Image            []byte
	ImageContentType string
}

// MoveCall describes the transaction the wallet signs to mint.
type MoveCall struct {
	Target    string   `json:"target"`
	Arguments []string `json:"arguments"`
	GasBudget uint64   `json:"gasBudget"`
}

// MintDraft is everything uploaded for a mint plus the call to sign.
type MintDraft struct {
	Owner              string   `json:"owner,omitempty"`
	ImageBlobID        string   `json:"imageBlobId"`
	ImageURL           string   `json:"imageUrl"`
	PublicMetadataURI  string   `json:"publicMetadataUri"`
	PrivateMetadataURI string   `json:"privateMetadataUri"`
	AtomaModelID       string   `json:"atomaModelId"`
	MoveCall           MoveCall `json:"moveCall"`
}

// BlobUpload is a blob to store. SuiAddress and SuiNetwork are forwarded to
// the publisher when set.
type BlobUpload struct {
	Data        []byte
	ContentType string
	SuiAddress  string
	SuiNetwork  string
}

// StoredBlob is the outcome of a blob upload.
type StoredBlob struct {
	BlobID string `json:"blobId"`
	URL    string `json:"url"`
}
