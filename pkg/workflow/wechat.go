package workflow

import (
	"time"

	"github.com/crosspub/crosspub/pkg/locator"
)

// Wechat Channels (shipinhao). The whole post form is contenteditable
// regions; there is no distinct title for short posts, so the title
// spec points at the short-title field introduced for search.
func init() {
	Register(&Definition{
		Name:      "wechat",
		EntryURL:  "https://channels.weixin.qq.com/platform/post/create",
		UploadURL: "https://channels.weixin.qq.com/platform/post/create",
		Roles: map[SemanticRole]locator.Spec{
			RoleFileInput: {
				locator.CSS(`input[type="file"]`),
				locator.CSS(`input[accept="video/*"]`),
				locator.XPath(`//div[contains(@class, "upload")]//input[@type="file"]`),
			},
			RoleTitle: {
				locator.XPath(`//input[contains(@placeholder, "标题")]`),
				locator.XPath(`//input[contains(@placeholder, "概括视频主要内容")]`),
				locator.Scan("标题 概括"),
			},
			RoleDescription: {
				locator.XPath(`//div[contains(@class, "input-editor")][@contenteditable="true"]`),
				locator.CSS(`div[contenteditable="true"]`),
				locator.XPath(`//textarea[contains(@placeholder, "描述")]`),
				locator.Scan("描述 添加描述"),
			},
			RoleSubmit: {
				locator.XPath(`//button[contains(text(), "发表")]`),
				locator.Role("button:发表"),
				locator.Text("发表"),
				locator.Scan("发表 发布"),
			},
			RoleCoverInput: {
				locator.XPath(`//input[@type="file" and contains(@accept, "image")]`),
			},
			RoleUploadPreview: {
				locator.CSS(`video`),
				locator.XPath(`//div[contains(@class, "post-video")]`),
			},
			RoleUploadProgress: {
				locator.Text("上传中"),
				locator.XPath(`//div[contains(@class, "progress")]`),
			},
			RoleLoginMarker: {
				locator.Text("扫码登录"),
				locator.XPath(`//div[contains(@class, "qrcode")]`),
			},
			RoleSuccessMarker: {
				locator.Text("发表成功"),
			},
			RoleErrorBanner: {
				locator.XPath(`//div[contains(@class, "weui-desktop-toast") and contains(., "失败")]`),
			},
		},
		Limits: Limits{
			TitleRunes:       30,
			DescriptionRunes: 600,
			MaxTags:          3,
			MaxDuration:      60 * time.Minute,
		},
		RichDescription:     true,
		TagsInDescription:   true,
		LoginURLKeywords:    []string{"login", "passport"},
		SuccessURLFragments: []string{"post/list"},
	})
}
