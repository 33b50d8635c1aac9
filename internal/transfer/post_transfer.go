package transfer

type PostCreation struct {
	WorkspaceID   int64    `json:"workspace_id"`
	Caption       string   `json:"caption"`
	MediaURLs     []string `json:"media_urls"`
	Platforms     []string `json:"platforms"`
	ScheduledTime string   `json:"scheduled_time"`
}

type PostCreationResult struct {
	PostID int64  `json:"post_id"`
	Status string `json:"status"`
}

type ApprovalAction struct {
	WorkspaceID int64  `json:"workspace_id"`
	PostID      int64  `json:"post_id"`
	Action      string `json:"action"`
	Comment     string `json:"comment"`
}

type CommentCreation struct {
	WorkspaceID int64  `json:"workspace_id"`
	PostID      int64  `json:"post_id"`
	Body        string `json:"body"`
}
