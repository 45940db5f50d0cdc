package dto

import (
	"fmt"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// ReferenceDTO is the wire form of a domain.Reference.
type ReferenceDTO struct {
	Type string `json:"type" binding:"required,oneof=customer vendor sale purchase invoice expense payment adjustment"`
	ID   string `json:"id" binding:"required"`
}

// ToDomain decodes the reference. A nil receiver decodes to a nil reference.
func (r *ReferenceDTO) ToDomain() (domain.Reference, error) {
	if r == nil {
		return nil, nil
	}
	ref, err := domain.DecodeReference(r.Type, r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid reference: %w", err)
	}
	return ref, nil
}

// FromReference encodes a domain reference for responses.
func FromReference(ref domain.Reference) *ReferenceDTO {
	if ref == nil {
		return nil
	}
	kind, id := domain.EncodeReference(ref)
	return &ReferenceDTO{Type: kind, ID: id}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
