package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

// FAQParams is the body of POST /faq.
type FAQParams struct {
	Question string `json:"question" validate:"required,min=1"`
}

// DiscoverParams is the body of POST /events/discover.
type DiscoverParams struct {
	CenterID   string `json:"center_id" validate:"required"`
	CenterName string `json:"center_name" validate:"required"`
	ZipCode    string `json:"zip_code"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	Radius     int    `json:"radius" validate:"omitempty,min=1,max=50"`
	OwnerEmail string `json:"owner_email" validate:"omitempty,email"`
}

// CenterInfo converts validated params into the domain struct with defaults
// applied.
func (p *DiscoverParams) CenterInfo() CenterInfo {
	c := CenterInfo{
		CenterID:   p.CenterID,
		CenterName: p.CenterName,
		ZipCode:    p.ZipCode,
		City:       p.City,
		State:      p.State,
		Country:    p.Country,
		Radius:     p.Radius,
		OwnerEmail: p.OwnerEmail,
	}
	c.ApplyDefaults()
	return c
}

// BatchParams is the body of POST /events/batch.
type BatchParams struct {
	Centers    []DiscoverParams `json:"centers" validate:"required,min=1,dive"`
	SendEmails bool             `json:"send_emails"`
}

func validateStruct(s any) map[string]string {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

func (p *FAQParams) Validate() map[string]string      { return validateStruct(p) }
func (p *DiscoverParams) Validate() map[string]string { return validateStruct(p) }
func (p *BatchParams) Validate() map[string]string    { return validateStruct(p) }
