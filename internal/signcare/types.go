package signcare

// Request/response shapes for the SignCare e-signature API. Only the
// fields the workflow relies on are modelled; the provider tolerates
// omitted optional fields.

type PDFCoordinate struct {
	X1 string `json:"X1"`
	X2 string `json:"X2"`
	Y1 string `json:"Y1"`
	Y2 string `json:"Y2"`
}

type PageCoordinate struct {
	PageNumber     int             `json:"pageNumber"`
	PDFCoordinates []PDFCoordinate `json:"PDFCoordinates"`
}

type ElectronicOptions struct {
	CanDraw            bool `json:"canDraw"`
	CanType            bool `json:"canType"`
	CanUpload          bool `json:"canUpload"`
	CaptureGPSLocation bool `json:"captureGPSLocation"`
	CapturePhoto       bool `json:"capturePhoto"`
}

// UserInfo describes one participant of a sequential signing request.
// Reviewer is order 1, Signer order 2, so review always precedes signing.
type UserInfo struct {
	Name              string             `json:"name"`
	EmailId           string             `json:"emailId"`
	UserType          string             `json:"userType"` // Reviewer | Signer
	SignatureType     string             `json:"signatureType"`
	ElectronicOptions *ElectronicOptions `json:"electronicOptions"`
	MobileNo          string             `json:"mobileNo"`
	Order             int                `json:"order"`
	UserReferenceId   string             `json:"userReferenceId"`
	SignAppearance    int                `json:"signAppearance"`
	PageCoordinates   []PageCoordinate   `json:"pageCoordinates"`
}

type DocumentInfo struct {
	Name    string `json:"name"`
	Content string `json:"content"` // base64 PDF
}

type CreateRequestInput struct {
	ReferenceId          string       `json:"referenceId"`
	SkipVerificationCode bool         `json:"skipVerificationCode"`
	DocumentInfo         DocumentInfo `json:"documentInfo"`
	SupportingDocuments  []string     `json:"supportingDocuments"`
	SequentialSigning    bool         `json:"sequentialSigning"`
	UserInfo             []UserInfo   `json:"userInfo"`
	DescriptionForInvite string       `json:"descriptionForInvitee"`
	FinalCopyRecipients  string       `json:"finalCopyRecipientsEmailId"`
}

type CreateRequestOutput struct {
	Success bool `json:"success"`
	Data    struct {
		DocumentId string `json:"documentId"`
	} `json:"data"`
	Message string `json:"message"`
}

// Signer statuses as reported by the provider.
const (
	SignerStatusApproved = "Approved"
	SignerStatusSigned   = "Signed"
	SignerStatusRejected = "Rejected"
	SignerStatusPending  = "Pending"
)

// Overall document statuses.
const (
	DocumentStatusPending  = "Pending"
	DocumentStatusSigned   = "Signed"
	DocumentStatusRejected = "Rejected"
)

type SignerInfo struct {
	SignerRefId               string `json:"signerRefId"`
	SignerStatus              string `json:"signerStatus"`
	SignerId                  string `json:"signerId"`
	InvitationExpireTimeStamp string `json:"invitationExpireTimeStamp"`
	RejectReason              string `json:"rejectReason,omitempty"`
}

type StatusInput struct {
	DocumentId          string `json:"documentId"`
	DocumentReferenceId string `json:"documentReferenceId"`
}

type StatusOutput struct {
	Success bool `json:"success"`
	Data    struct {
		DocumentStatus string       `json:"documentStatus"`
		SignerInfo     []SignerInfo `json:"signerInfo"`
	} `json:"data"`
	Message string `json:"message"`
}
