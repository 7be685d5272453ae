// Package project defines the research project domain model.
package project

import "errors"

// Project is a user-owned research project.
type Project struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Domain string `json:"domain"`
	Aim    string `json:"aim"`
}

// CreateRequest is the body for POST /projects.
type CreateRequest struct {
	Title  string `json:"title"`
	Domain string `json:"domain"`
	Aim    string `json:"aim"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Domain == "" {
		return errors.New("domain is required")
	}
	if r.Aim == "" {
		return errors.New("aim is required")
	}
	return nil
}
