package notify

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmlTemplate "html/template"
	"text/template"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

//go:embed tpl_files/*
var TemplateFiles embed.FS

// TemplateHandler is a struct that holds the html and text templates.
type TemplateHandler struct {
	portalUrl     string
	htmlTemplates *htmlTemplate.Template
	textTemplates *template.Template
}

func newTemplateHandler(portalUrl string) (*TemplateHandler, error) {
	htmlTemplateCache, err := htmlTemplate.New("Html").ParseFS(TemplateFiles, "tpl_files/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html template files: %w", err)
	}

	txtTemplateCache, err := template.New("Txt").ParseFS(TemplateFiles, "tpl_files/*.gotpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template files: %w", err)
	}

	handler := &TemplateHandler{
		portalUrl:     portalUrl,
		htmlTemplates: htmlTemplateCache,
		textTemplates: txtTemplateCache,
	}

	return handler, nil
}

// GetAlertMail returns the text and html body for the alert mail.
func (c TemplateHandler) GetAlertMail(alert domain.SecurityAlert) (string, string, error) {
	var tplBuff bytes.Buffer
	var htmlTplBuff bytes.Buffer

	details, err := json.MarshalIndent(alert.Details, "", "  ")
	if err != nil {
		details = []byte("{}")
	}

	data := map[string]any{
		"Alert":     alert,
		"Details":   string(details),
		"PortalUrl": c.portalUrl,
	}

	err = c.textTemplates.ExecuteTemplate(&tplBuff, "security_alert.gotpl", data)
	if err != nil {
		return "", "", fmt.Errorf("failed to execute template security_alert.gotpl: %w", err)
	}

	err = c.htmlTemplates.ExecuteTemplate(&htmlTplBuff, "security_alert.gohtml", data)
	if err != nil {
		return "", "", fmt.Errorf("failed to execute template security_alert.gohtml: %w", err)
	}

	return tplBuff.String(), htmlTplBuff.String(), nil
}
