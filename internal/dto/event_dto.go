package dto

// DocumentImportedMessage is the watermill payload linking a chat-imported
// document to the background knowledge indexer.
type DocumentImportedMessage struct {
	SessionID string `json:"session_id"`
	Source    string `json:"source"`
	Content   string `json:"content"`
}
