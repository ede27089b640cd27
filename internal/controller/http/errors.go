package http

import (
	"errors"
	"net/http"

	genentity "github.com/vadim/tweetlab/internal/domain/generation/entity"
	styleentity "github.com/vadim/tweetlab/internal/domain/style/entity"
	tweetentity "github.com/vadim/tweetlab/internal/domain/tweet/entity"
	userentity "github.com/vadim/tweetlab/internal/domain/user/entity"
	"github.com/vadim/tweetlab/internal/httpx/response"
)

func handleTweetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tweetentity.ErrTweetNotFound):
		response.NotFound(w, "Tweet not found")
	case errors.Is(err, tweetentity.ErrTweetNotEditable):
		response.Conflict(w, err.Error())
	case errors.Is(err, tweetentity.ErrEmptyContent):
		response.BadRequest(w, "Content is required")
	case errors.Is(err, tweetentity.ErrEmptyUserID), errors.Is(err, tweetentity.ErrContentTooLong),
		errors.Is(err, tweetentity.ErrInvalidStatus), errors.Is(err, tweetentity.ErrScheduledTimeInPast):
		response.BadRequest(w, err.Error())
	case errors.Is(err, tweetentity.ErrExportUnavailable):
		response.ServiceUnavailable(w, err.Error())
	default:
		handleAccountError(w, err)
	}
}

func handleAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userentity.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, userentity.ErrEmailTaken):
		response.Conflict(w, err.Error())
	case errors.Is(err, userentity.ErrInvalidCredentials):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, userentity.ErrInvalidEmail), errors.Is(err, userentity.ErrWeakPassword),
		errors.Is(err, userentity.ErrInvalidProfile):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "internal server error")
	}
}

func handleGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, genentity.ErrEmptyTopic):
		response.BadRequest(w, "Topic is required")
	case errors.Is(err, genentity.ErrInvalidTweetCount), errors.Is(err, genentity.ErrInvalidVariants):
		response.BadRequest(w, err.Error())
	case errors.Is(err, genentity.ErrGeneratorDisabled), errors.Is(err, genentity.ErrGeneratorUnhealthy):
		response.InternalError(w, err.Error())
	case errors.Is(err, genentity.ErrGenerationFailed):
		response.InternalError(w, genentity.ErrGenerationFailed.Error())
	default:
		handleAccountError(w, err)
	}
}

func handleStyleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, styleentity.ErrNoTweets):
		response.BadRequest(w, "Tweets array is required")
	case errors.Is(err, styleentity.ErrTooManyTweets):
		response.BadRequest(w, err.Error())
	case errors.Is(err, styleentity.ErrAnalysisNotFound):
		response.NotFound(w, err.Error())
	default:
		response.InternalError(w, "Analysis failed")
	}
}
