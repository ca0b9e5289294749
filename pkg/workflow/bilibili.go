package workflow

import (
	"time"

	"github.com/crosspub/crosspub/pkg/locator"
)

// Bilibili upload portal. The page is heavily structured, so the
// primary selectors are positional and the scan tiers carry the real
// resilience burden here.
func init() {
	Register(&Definition{
		Name:      "bilibili",
		EntryURL:  "https://member.bilibili.com/platform/upload/video/frame",
		UploadURL: "https://member.bilibili.com/platform/upload/video/frame",
		Roles: map[SemanticRole]locator.Spec{
			RoleFileInput: {
				locator.CSS(`input[type="file"]`),
				locator.XPath(`//*[@id="video-up-app"]//input[@type="file"]`),
				locator.XPath(`//div[contains(@class, "upload")]//input[@type="file"]`),
			},
			RoleTitle: {
				locator.XPath(`//input[contains(@placeholder, "标题")]`),
				locator.XPath(`//*[@id="video-up-app"]//div[contains(@class, "video-title")]//input`),
				locator.Scan("标题 title"),
			},
			RoleDescription: {
				locator.XPath(`//div[contains(@class, "archive-info-editor")]//div[@contenteditable="true"]`),
				locator.XPath(`//textarea[contains(@placeholder, "简介")]`),
				locator.Scan("简介 描述 填写更全面的相关信息"),
			},
			RoleSubmit: {
				locator.XPath(`//span[text()="立即投稿"]/parent::button`),
				locator.XPath(`//button[contains(text(), "立即投稿")]`),
				locator.Text("立即投稿"),
				locator.Scan("投稿 立即投稿 发布"),
			},
			RoleUploadPreview: {
				locator.Text("上传完成"),
				locator.XPath(`//div[contains(@class, "success")]`),
			},
			RoleUploadProgress: {
				locator.XPath(`//div[contains(@class, "progress")]`),
				locator.Text("上传中"),
			},
			RoleLoginMarker: {
				locator.Text("扫码登录"),
				locator.XPath(`//div[contains(@class, "login-panel")]`),
			},
			RoleSuccessMarker: {
				locator.Text("稿件投递成功"),
				locator.Text("投稿成功"),
			},
			RoleErrorBanner: {
				locator.XPath(`//div[contains(@class, "error") and contains(., "失败")]`),
			},
		},
		Limits: Limits{
			TitleRunes:       80,
			DescriptionRunes: 2000,
			MaxTags:          10,
			MaxFileSize:      8 << 30,
		},
		RichDescription:   true,
		TagsInDescription: true,
		LoginURLKeywords:  []string{"login", "passport"},
		SuccessURLFragments: []string{
			"upload-manager",
			"platform/upload/video/finish",
		},
		// Bilibili transcodes large uploads slowly
		ProcessingTimeout: 10 * time.Minute,
	})
}
