package dto

type ModelInfoResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
}

type ListModelsResponse struct {
	Chat      []ModelInfoResponse `json:"chat,omitempty"`
	Embedding []ModelInfoResponse `json:"embedding,omitempty"`
}

type SetChatModelRequest struct {
	Model string `json:"model" validate:"required"`
}

type CurrentModelsResponse struct {
	Chat      string `json:"chat"`
	Embedding string `json:"embedding"`
}
