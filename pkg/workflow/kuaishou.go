package workflow

import (
	"time"

	"github.com/crosspub/crosspub/pkg/locator"
)

// Kuaishou creator platform.
func init() {
	Register(&Definition{
		Name:      "kuaishou",
		EntryURL:  "https://cp.kuaishou.com/article/publish/video",
		UploadURL: "https://cp.kuaishou.com/article/publish/video",
		Roles: map[SemanticRole]locator.Spec{
			RoleFileInput: {
				locator.CSS(`input[type="file"]`),
				locator.CSS(`input[accept="video/*"]`),
				locator.XPath(`//div[contains(@class, "upload")]//input[@type="file"]`),
			},
			RoleTitle: {
				locator.XPath(`//input[contains(@placeholder, "标题")]`),
				locator.XPath(`//textarea[contains(@placeholder, "标题")]`),
				locator.Scan("标题 title 填写"),
			},
			RoleDescription: {
				locator.XPath(`//textarea[contains(@placeholder, "简介")]`),
				locator.XPath(`//textarea[contains(@placeholder, "描述")]`),
				locator.XPath(`//div[contains(@class, "editor")]//textarea`),
				locator.Scan("简介 描述"),
			},
			RoleSubmit: {
				locator.XPath(`//button[text()="发布作品"]`),
				locator.XPath(`//button[contains(text(), "发布")]`),
				locator.Role("button:发布"),
				locator.Scan("发布 发布作品 提交"),
			},
			RoleUploadPreview: {
				locator.CSS(`video`),
				locator.XPath(`//div[contains(@class, "preview")]`),
			},
			RoleUploadProgress: {
				locator.Text("上传中"),
				locator.XPath(`//div[contains(@class, "progress")]`),
			},
			RoleLoginMarker: {
				locator.Text("扫码登录"),
				locator.Text("登录快手"),
			},
			RoleSuccessMarker: {
				locator.Text("发布成功"),
			},
			RoleErrorBanner: {
				locator.XPath(`//div[contains(@class, "toast") and contains(., "失败")]`),
			},
		},
		Limits: Limits{
			TitleRunes:       50,
			DescriptionRunes: 1000,
			MaxTags:          5,
			MaxDuration:      30 * time.Minute,
		},
		TagsInDescription:   true,
		LoginURLKeywords:    []string{"login", "passport"},
		SuccessURLFragments: []string{"article/manage"},
	})
}
