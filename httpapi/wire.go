package httpapi

import "github.com/sitesmith/sitesmith"

// Wire types for the generation service's JSON API.

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiGenerateRequest struct {
	Description string       `json:"description"`
	Template    string       `json:"template,omitempty"`
	ThreadID    string       `json:"threadId,omitempty"`
	Messages    []apiMessage `json:"messages,omitempty"`
}

type apiUpdateRequest struct {
	Pages       map[string]sitesmith.Page `json:"pages"`
	GlobalCSS   string                    `json:"globalCss"`
	EditRequest string                    `json:"editRequest"`
	FolderPath  string                    `json:"folderPath,omitempty"`
}

type apiUpdateResponse struct {
	UpdatedPages     map[string]sitesmith.Page `json:"updatedPages"`
	UpdatedGlobalCSS *string                   `json:"updatedGlobalCss"`
	ChangesSummary   string                    `json:"changesSummary"`
}

type apiErrorResponse struct {
	Error string `json:"error"`
}

func convertMessages(msgs []sitesmith.Message) []apiMessage {
	if len(msgs) == 0 {
		return nil
	}
	result := make([]apiMessage, len(msgs))
	for i, m := range msgs {
		result[i] = apiMessage{Role: string(m.Role), Content: m.Content}
	}
	return result
}
