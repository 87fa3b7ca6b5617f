// internal/models/notification.go
package models

// ReportReady announces a stored report to the user who requested it.
type ReportReady struct {
	ReportID         string `json:"reportId"`
	IkigaiResponseID string `json:"ikigaiResponseId"`
	UserID           string `json:"userId"`
	Email            string `json:"email,omitempty"`
	ReportType       string `json:"reportType"`
	Headline         string `json:"headline,omitempty"`
	TopCareer        string `json:"topCareer,omitempty"`
}

// NotificationResult records which channels accepted the message.
type NotificationResult struct {
	EmailSent    bool   `json:"emailSent"`
	EmailID      string `json:"emailId,omitempty"`
	SNSPublished bool   `json:"snsPublished"`
	SNSMessageID string `json:"snsMessageId,omitempty"`
}
