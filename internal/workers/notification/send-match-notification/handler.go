// internal/workers/notification/send-match-notification/handler.go
package sendmatchnotification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"matchlab-workers/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "notification.send-match-notification"
)

var (
	ErrSendFailed     = errors.New("NOTIFICATION_SEND_FAILED")
	ErrInvalidChannel = errors.New("NOTIFICATION_INVALID_CHANNEL")
)

type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type PushPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	email  EmailSender
	push   PushPublisher
	logger logger.Logger
}

func NewHandler(config *Config, email EmailSender, push PushPublisher, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		email:  email,
		push:   push,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, h.mapErrorToCode(err), err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	subject, body := buildMessage(input)

	var messageID string
	var err error
	switch input.Channel {
	case ChannelEmail:
		messageID, err = h.sendEmail(ctx, input.Email, subject, body)
	case ChannelPush:
		messageID, err = h.sendPush(ctx, input, subject, body)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidChannel, input.Channel)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	h.logger.Info("match notification sent", map[string]interface{}{
		"userId":    input.UserID,
		"channel":   input.Channel,
		"messageId": messageID,
	})

	return &Output{
		Success:   true,
		Channel:   input.Channel,
		MessageID: messageID,
		SentAt:    time.Now().UTC(),
	}, nil
}

func buildMessage(input *Input) (subject, body string) {
	subject = fmt.Sprintf("%s님, 새로운 매칭 상대를 찾았어요!", input.Nickname)
	body = fmt.Sprintf("%s님과의 매칭 점수는 %d점이에요.", input.CandidateNickname, input.MatchTotal)
	if input.ReasonSummary != "" {
		body += "\n" + input.ReasonSummary
	}
	body += "\n지금 프로필을 확인해보세요."
	return subject, body
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) (string, error) {
	if to == "" {
		return "", errors.New("recipient email is required")
	}

	out, err := h.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

func (h *Handler) sendPush(ctx context.Context, input *Input, subject, body string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"title":  subject,
		"body":   body,
		"userId": input.UserID,
	})
	if err != nil {
		return "", err
	}

	publishInput := &sns.PublishInput{Message: aws.String(string(payload))}
	if input.PushTarget != "" {
		publishInput.TargetArn = aws.String(input.PushTarget)
	} else if h.config.SNSTopicARN != "" {
		publishInput.TopicArn = aws.String(h.config.SNSTopicARN)
	} else {
		return "", errors.New("no push target configured")
	}

	out, err := h.push.Publish(ctx, publishInput)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrInvalidChannel) {
		return "NOTIFICATION_INVALID_CHANNEL"
	}
	return "NOTIFICATION_SEND_FAILED"
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
