package api

import (
	"CaseKeeper/internal/handlers"
	"CaseKeeper/internal/model"
	"CaseKeeper/internal/service"
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
)

func encodeImages(in []service.ImageInput) []handlers.ImageDTO {
	out := make([]handlers.ImageDTO, 0, len(in))
	for _, img := range in {
		dto := handlers.ImageDTO{Name: img.Name, ContentType: img.ContentType, URL: img.URL}
		if len(img.Data) > 0 {
			dto.Data = base64.StdEncoding.EncodeToString(img.Data)
		}
		out = append(out, dto)
	}
	return out
}

func profileRequest(in service.ProfileInput) handlers.ProfileRequest {
	return handlers.ProfileRequest{Name: in.Name, Symptom: in.Symptom, Contact: in.Contact, Gender: in.Gender, Age: in.Age}
}

func (c *Client) ListCases(ctx context.Context) ([]model.Case, error) {
	var out []model.Case
	if err := c.call(ctx, http.MethodGet, "/api/records", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCase(ctx context.Context, id string) (*model.Case, error) {
	var out model.Case
	if err := c.call(ctx, http.MethodGet, "/api/records/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchCases(ctx context.Context, query string) ([]model.Case, error) {
	var out []model.Case
	if err := c.call(ctx, http.MethodGet, "/api/search?query="+url.QueryEscape(query), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCase(ctx context.Context, in service.CreateCaseInput) (*model.Case, error) {
	req := handlers.CreateCaseRequest{
		ProfileRequest: profileRequest(in.ProfileInput),
		Content:        in.Content,
		Images:         encodeImages(in.Images),
	}
	var out model.Case
	if err := c.call(ctx, http.MethodPost, "/api/records", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCase(ctx context.Context, id string, in service.ProfileInput) (*model.Case, error) {
	var out model.Case
	if err := c.call(ctx, http.MethodPut, "/api/records/"+url.PathEscape(id), profileRequest(in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddDiagnosis(ctx context.Context, caseID, content string, images []service.ImageInput) (*model.Case, error) {
	req := handlers.DiagnosisRequest{Content: content, Images: encodeImages(images)}
	var out model.Case
	if err := c.call(ctx, http.MethodPost, "/api/records/"+url.PathEscape(caseID)+"/diagnoses", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EditDiagnosis(ctx context.Context, caseID, diagnosisID, content string, images []service.ImageInput) (*model.Case, error) {
	req := handlers.DiagnosisRequest{Content: content, Images: encodeImages(images)}
	var out model.Case
	path := "/api/records/" + url.PathEscape(caseID) + "/diagnoses/" + url.PathEscape(diagnosisID)
	if err := c.call(ctx, http.MethodPut, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
