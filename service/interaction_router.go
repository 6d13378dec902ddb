// ABOUTME: This file implements routing of inbound chat events to bot flows
// ABOUTME: Replies immediately with the reply token, then pushes deferred results by user id
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"briefcard/domain"
	"briefcard/repository"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// User-facing messages. The bot speaks Traditional Chinese.
const (
	msgProcessingLink = "📋 正在處理您的連結...\n🔗 %s\n\n請稍候，我將為您生成預覽卡片！"
	msgPipelineFailed = "😅 抱歉，處理您的連結時遇到問題，請稍後再試。"

	msgGreeting = "👋 歡迎使用 BriefCard！\n\n📋 請分享網頁連結，我會生成精美的預覽卡片\n💡 輸入「幫助」查看功能說明"
	msgHelp     = "🌟 BriefCard Bot 功能說明\n\n📋 主要功能：\n• 分享網頁連結，自動生成預覽卡片\n• AI 智能摘要重點內容\n• 一鍵保存到個人書庫\n\n💡 使用方法：\n直接貼上任何網頁連結即可！"

	msgSavingBookmark    = "💾 正在保存書籤，請稍候..."
	msgSaveSucceeded     = "✅ 書籤已保存到「%s」資料夾！"
	msgSaveFailed        = "😕 保存失敗，請稍後再試。"
	msgFolderUnavailable = "😕 無法創建預設資料夾，請稍後再試。"
	msgSaveErrored       = "😅 保存時發生錯誤，請稍後再試。"

	msgUnknownAction = "🤔 未知的操作，請重新嘗試。"
)

// pipelineTimeout bounds deferred work spawned per event. Deferred goroutines
// get their own context because the webhook request context is gone by the
// time they run.
const pipelineTimeout = 5 * time.Minute

// InteractionRouter implementation.
type interactionRouter struct {
	bookmarkRepo   repository.BookmarkRepository
	folderRepo     repository.FolderRepository
	pipeline       BookmarkPipeline
	renderer       CardRenderer
	gateway        MessagingGateway
	logger         *slog.Logger
	frontendOrigin string
	// spawn runs deferred work detached from the webhook request.
	spawn func(fn func())
}

// NewInteractionRouter creates the router that connects inbound chat events
// to the bookmark pipeline and the messaging gateway.
func NewInteractionRouter(
	bookmarkRepo repository.BookmarkRepository,
	folderRepo repository.FolderRepository,
	pipeline BookmarkPipeline,
	renderer CardRenderer,
	gateway MessagingGateway,
	frontendOrigin string,
	logger *slog.Logger,
) InteractionRouter {
	return &interactionRouter{
		bookmarkRepo:   bookmarkRepo,
		folderRepo:     folderRepo,
		pipeline:       pipeline,
		renderer:       renderer,
		gateway:        gateway,
		logger:         logger,
		frontendOrigin: frontendOrigin,
		spawn:          func(fn func()) { go fn() },
	}
}

// HandleTextMessage routes one inbound text message. If the text contains a
// URL, only the first one is processed; the rest of the message is ignored.
func (r *interactionRouter) HandleTextMessage(ctx context.Context, event *domain.TextMessageEvent) error {
	r.logger.InfoContext(ctx, "received text message", "user_id", event.UserID, "length", len(event.Text))

	if url := urlPattern.FindString(event.Text); url != "" {
		return r.handleURLMessage(ctx, event, url)
	}

	switch event.Text {
	case "help", "幫助", "/help":
		return r.gateway.ReplyText(ctx, event.ReplyToken, msgHelp)
	default:
		return r.gateway.ReplyText(ctx, event.ReplyToken, msgGreeting)
	}
}

// handleURLMessage acknowledges immediately, then runs the pipeline in a
// detached goroutine and pushes the resulting card.
func (r *interactionRouter) handleURLMessage(ctx context.Context, event *domain.TextMessageEvent, url string) error {
	r.logger.InfoContext(ctx, "detected url in message", "user_id", event.UserID, "url", url)

	if err := r.gateway.ReplyText(ctx, event.ReplyToken, fmt.Sprintf(msgProcessingLink, url)); err != nil {
		r.logger.ErrorContext(ctx, "failed to send processing reply", "user_id", event.UserID, "error", err)
	}

	bookmark, err := r.bookmarkRepo.Create(ctx, &domain.Bookmark{
		UserID:      event.UserID,
		URL:         url,
		Status:      domain.BookmarkStatusPending,
		Title:       "處理中...",
		Description: "正在分析網頁內容",
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to create bookmark", "user_id", event.UserID, "url", url, "error", err)
		return r.gateway.PushText(ctx, event.UserID, msgPipelineFailed)
	}

	r.spawn(func() { r.processAndNotify(bookmark.ID, event.UserID) })

	return nil
}

// processAndNotify runs the pipeline for one bookmark and pushes the outcome
// to the user. It runs detached from the webhook request.
func (r *interactionRouter) processAndNotify(bookmarkID, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
	defer cancel()

	bookmark, err := r.pipeline.Run(ctx, bookmarkID)
	if err != nil {
		r.logger.ErrorContext(ctx, "bookmark pipeline failed", "bookmark_id", bookmarkID, "user_id", userID, "error", err)

		if pushErr := r.gateway.PushText(ctx, userID, msgPipelineFailed); pushErr != nil {
			r.logger.ErrorContext(ctx, "failed to push pipeline failure message", "user_id", userID, "error", pushErr)
		}

		return
	}

	card := r.renderer.Render(bookmark)

	if err := r.gateway.PushCard(ctx, userID, card); err != nil {
		r.logger.ErrorContext(ctx, "failed to push bookmark card", "bookmark_id", bookmarkID, "user_id", userID, "error", err)
	}
}

// HandlePostback routes one postback event by its parsed action.
func (r *interactionRouter) HandlePostback(ctx context.Context, event *domain.PostbackEvent) error {
	action := domain.ParseAction(event.Data)

	r.logger.InfoContext(ctx, "received postback", "user_id", event.UserID, "data", event.Data)

	switch action.Kind {
	case domain.ActionSaveBookmark:
		return r.handleSaveBookmark(ctx, event, action.BookmarkID)
	case domain.ActionOverview:
		historyURL := fmt.Sprintf("%s/bookmark-history.html?userId=%s", r.frontendOrigin, event.UserID)
		message := fmt.Sprintf("📊 **書籤總覽**\n\n點擊下方連結查看您的書籤總覽：\n%s\n\n✨ **功能特色**：\n• 📖 瀏覽所有保存的書籤\n• 🔍 快速搜尋功能\n• 📊 使用統計資訊\n• 📅 按時間排序檢視", historyURL)

		return r.gateway.ReplyText(ctx, event.ReplyToken, message)
	case domain.ActionFolders:
		message := "📁 **資料夾管理**\n\n📂 書籤保存時會自動歸入預設資料夾\n🎨 您可以在編輯卡片時創建和選擇資料夾！"

		return r.gateway.ReplyText(ctx, event.ReplyToken, message)
	case domain.ActionProfile:
		message := "👤 **個人設定**\n\n📈 個人化設定功能開發中\n\n感謝您使用 BriefCard！ 😊"

		return r.gateway.ReplyText(ctx, event.ReplyToken, message)
	default:
		r.logger.WarnContext(ctx, "unknown postback action", "user_id", event.UserID, "data", event.Data)

		return r.gateway.ReplyText(ctx, event.ReplyToken, msgUnknownAction)
	}
}

// handleSaveBookmark acknowledges, then assigns the bookmark to the user's
// default folder in a detached goroutine, creating the folder when missing.
func (r *interactionRouter) handleSaveBookmark(ctx context.Context, event *domain.PostbackEvent, bookmarkID string) error {
	r.logger.InfoContext(ctx, "saving bookmark to default folder", "bookmark_id", bookmarkID, "user_id", event.UserID)

	if err := r.gateway.ReplyText(ctx, event.ReplyToken, msgSavingBookmark); err != nil {
		r.logger.ErrorContext(ctx, "failed to send saving reply", "user_id", event.UserID, "error", err)
	}

	r.spawn(func() { r.saveToDefaultFolder(bookmarkID, event.UserID) })

	return nil
}

func (r *interactionRouter) saveToDefaultFolder(bookmarkID, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
	defer cancel()

	folder, err := r.folderRepo.FindDefaultByUser(ctx, userID)
	if errors.Is(err, domain.ErrFolderNotFound) {
		folder, err = r.folderRepo.Create(ctx, &domain.Folder{
			UserID:    userID,
			Name:      domain.DefaultFolderName,
			Color:     domain.DefaultFolderColor,
			SortOrder: domain.DefaultFolderSortOrder,
			IsDefault: true,
		})
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to create default folder", "user_id", userID, "error", err)
			r.push(ctx, userID, msgFolderUnavailable)

			return
		}
	} else if err != nil {
		r.logger.ErrorContext(ctx, "failed to look up default folder", "user_id", userID, "error", err)
		r.push(ctx, userID, msgSaveErrored)

		return
	}

	update := &domain.BookmarkUpdate{FolderID: &folder.ID}
	if _, err := r.bookmarkRepo.Update(ctx, bookmarkID, update); err != nil {
		r.logger.ErrorContext(ctx, "failed to assign bookmark to folder", "bookmark_id", bookmarkID, "folder_id", folder.ID, "error", err)
		r.push(ctx, userID, msgSaveFailed)

		return
	}

	r.logger.InfoContext(ctx, "bookmark saved to folder", "bookmark_id", bookmarkID, "folder", folder.Name)
	r.push(ctx, userID, fmt.Sprintf(msgSaveSucceeded, folder.Name))
}

func (r *interactionRouter) push(ctx context.Context, userID, text string) {
	if err := r.gateway.PushText(ctx, userID, text); err != nil {
		r.logger.ErrorContext(ctx, "failed to push message", "user_id", userID, "error", err)
	}
}
