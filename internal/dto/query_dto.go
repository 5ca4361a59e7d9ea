package dto

import "document-qa-be/pkg/rag/search"

type QueryRagRequest struct {
	Query string `json:"query" validate:"required,notblank,max=4000"`
}

type QueryRagResponse struct {
	Success   bool            `json:"success"`
	Response  string          `json:"response"`
	Results   []search.Result `json:"results"`
	Citations []string        `json:"citations"`
}
