// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Form is an ordered multipart body: text fields and file parts.
//
// # Usage
//
//	form := gateway.NewForm().
//	    Field("title", title).
//	    File("image", "cover.jpg", file)
type Form struct {
	parts []formPart
}

type formPart struct {
	name     string
	value    string
	filename string
	content  io.Reader
}

// NewForm returns an empty [Form].
func NewForm() *Form {
	return &Form{}
}

// Field appends a text field.
func (form *Form) Field(name, value string) *Form {
	form.parts = append(form.parts, formPart{name: name, value: value})
	return form
}

// File appends a file part. The content is read when the form is encoded.
func (form *Form) File(name, filename string, content io.Reader) *Form {
	form.parts = append(form.parts, formPart{name: name, filename: filename, content: content})
	return form
}

// Len returns the number of parts.
func (form *Form) Len() int {
	return len(form.parts)
}

// Value returns the first text field called name.
func (form *Form) Value(name string) (string, bool) {
	for _, part := range form.parts {
		if part.name == name && part.content == nil {
			return part.value, true
		}
	}
	return "", false
}

// HasFile reports whether a file part called name is present.
func (form *Form) HasFile(name string) bool {
	for _, part := range form.parts {
		if part.name == name && part.content != nil {
			return true
		}
	}
	return false
}

// encode renders the body and returns it with its Content-Type (boundary included).
func (form *Form) encode() (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, part := range form.parts {
		if part.content == nil {
			if err := writer.WriteField(part.name, part.value); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", part.name, err)
			}
			continue
		}

		fileWriter, err := writer.CreateFormFile(part.name, part.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file %s: %w", part.name, err)
		}
		if _, err := io.Copy(fileWriter, part.content); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", part.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close writer: %w", err)
	}

	return &body, writer.FormDataContentType(), nil
}
