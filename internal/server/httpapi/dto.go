package httpapi

import (
	"time"

	"github.com/dmitrijs2005/sailblog/internal/server/models"
)

type signupRequest struct {
	Nickname             string `json:"nickname" form:"nickname"`
	Password             string `json:"password" form:"password"`
	PasswordConfirmation string `json:"passwordConfirmation" form:"passwordConfirmation"`
}

type loginRequest struct {
	Nickname string `json:"nickname" form:"nickname"`
	Password string `json:"password" form:"password"`
}

type postRequest struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type postOwner struct {
	Nickname string `json:"nickname"`
}

type postSummaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	User      postOwner `json:"user"`
}

type postResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	User      postOwner `json:"user"`
}

// postBody is the post echoed back by create and update.
type postBody struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type postMutationResponse struct {
	Message string   `json:"message"`
	Post    postBody `json:"post"`
}

func toSummaries(items []*models.PostSummary) []postSummaryResponse {
	out := make([]postSummaryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, postSummaryResponse{
			ID:        it.ID,
			Title:     it.Title,
			CreatedAt: it.CreatedAt,
			User:      postOwner{Nickname: it.Nickname},
		})
	}
	return out
}

func toPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		User:      postOwner{Nickname: p.Nickname},
	}
}

func toPostBody(p *models.Post, withUpdatedAt bool) postBody {
	b := postBody{ID: p.ID, Title: p.Title, Content: p.Content, CreatedAt: p.CreatedAt}
	if withUpdatedAt {
		updated := p.UpdatedAt
		b.UpdatedAt = &updated
	}
	return b
}
