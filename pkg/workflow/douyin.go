package workflow

import (
	"time"

	"github.com/crosspub/crosspub/pkg/locator"
)

// Douyin creator studio. The upload page only reveals title and
// description fields after the video file is accepted, so the title
// field doubles as a processing-complete signal.
func init() {
	Register(&Definition{
		Name:      "douyin",
		EntryURL:  "https://creator.douyin.com/creator-micro/content/upload",
		UploadURL: "https://creator.douyin.com/creator-micro/content/upload",
		Roles: map[SemanticRole]locator.Spec{
			RoleFileInput: {
				locator.CSS(`input[type="file"]`),
				locator.CSS(`input[accept="video/*"]`),
				locator.XPath(`//div[contains(@class, "upload")]//input[@type="file"]`),
				locator.CSS(`input.upload-input`),
			},
			RoleTitle: {
				locator.CSS(`input.semi-input.semi-input-default`),
				locator.XPath(`//input[contains(@placeholder, "标题")]`),
				locator.Scan("标题 title"),
			},
			RoleDescription: {
				locator.CSS(`div[contenteditable="true"]`),
				locator.XPath(`//div[contains(@class, "editor")]//div[@contenteditable="true"]`),
				locator.Scan("简介 描述 正文"),
			},
			RoleSubmit: {
				locator.XPath(`//button[text()="发布"]`),
				locator.XPath(`//button[contains(@class, "semi-button-primary") and contains(text(), "发布")]`),
				locator.Role("button:发布"),
				locator.Text("立即发布"),
				locator.Scan("发布 立即发布 确认发布"),
			},
			RoleUploadPreview: {
				locator.CSS(`div[class*="phone-preview"]`),
				locator.CSS(`video`),
			},
			RoleUploadProgress: {
				locator.XPath(`//div[contains(@class, "progress")]`),
				locator.Text("上传中"),
			},
			RoleLoginMarker: {
				locator.Text("扫码登录"),
				locator.XPath(`//div[contains(@class, "login-pannel")]`),
			},
			RoleSuccessMarker: {
				locator.Text("发布成功"),
			},
			RoleErrorBanner: {
				locator.XPath(`//div[contains(@class, "semi-toast-content") and contains(., "失败")]`),
			},
		},
		Limits: Limits{
			TitleRunes:       30,
			DescriptionRunes: 1000,
			MaxTags:          5,
			MaxDuration:      15 * time.Minute,
		},
		RichDescription:     true,
		TagsInDescription:   true,
		LoginURLKeywords:    []string{"login", "passport", "sso", "auth"},
		SuccessURLFragments: []string{"content/manage", "content/post"},
	})
}
