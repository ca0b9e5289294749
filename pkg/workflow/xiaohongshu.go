package workflow

import (
	"time"

	"github.com/crosspub/crosspub/pkg/locator"
)

// Xiaohongshu creator studio. Notes allow long titles and the body is a
// plain textarea, unlike the contenteditable editors elsewhere.
func init() {
	Register(&Definition{
		Name:      "xiaohongshu",
		EntryURL:  "https://creator.xiaohongshu.com/publish/publish",
		UploadURL: "https://creator.xiaohongshu.com/publish/publish",
		Roles: map[SemanticRole]locator.Spec{
			RoleFileInput: {
				locator.CSS(`input[type="file"]`),
				locator.CSS(`input[accept="video/*,image/*"]`),
				locator.XPath(`//div[contains(@class, "upload")]//input[@type="file"]`),
				locator.CSS(`input.upload-input`),
			},
			RoleTitle: {
				locator.XPath(`//input[contains(@placeholder, "标题")]`),
				locator.XPath(`//textarea[contains(@placeholder, "标题")]`),
				locator.XPath(`//input[contains(@placeholder, "填写标题")]`),
				locator.Scan("标题 title"),
			},
			RoleDescription: {
				locator.XPath(`//textarea[contains(@placeholder, "添加正文")]`),
				locator.XPath(`//textarea[contains(@placeholder, "正文")]`),
				locator.XPath(`//div[contains(@class, "editor")]//textarea`),
				locator.Scan("正文 描述 简介"),
			},
			RoleSubmit: {
				locator.XPath(`//button[contains(text(), "发布")]`),
				locator.Role("button:发布"),
				locator.Scan("发布 发布笔记"),
			},
			RoleUploadPreview: {
				locator.CSS(`video`),
				locator.XPath(`//div[contains(@class, "preview")]`),
			},
			RoleUploadProgress: {
				locator.Text("上传中"),
			},
			RoleLoginMarker: {
				locator.Text("扫码登录"),
				locator.Text("手机号登录"),
			},
			RoleSuccessMarker: {
				locator.Text("发布成功"),
			},
			RoleErrorBanner: {
				locator.XPath(`//div[contains(@class, "toast") and contains(., "失败")]`),
			},
		},
		Limits: Limits{
			TitleRunes:       100,
			DescriptionRunes: 1000,
			MaxTags:          10,
			MaxDuration:      60 * time.Minute,
		},
		TagsInDescription:   true,
		LoginURLKeywords:    []string{"login", "passport"},
		SuccessURLFragments: []string{"publish/success", "note-manager"},
	})
}
