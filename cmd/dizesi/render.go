// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/pkg/pagination"
)

// # Plain Text Rendering

func printPost(out io.Writer, p post.Post) {
	liked := " "
	if p.IsLiked {
		liked = "*"
	}

	fmt.Fprintf(out, "#%d %s\n", p.ID, p.Title)
	fmt.Fprintf(out, "   by %s (@%s)  %s%d likes  %d comments", p.User.DisplayName(), p.User.Username, liked, p.LikesCount, p.CommentsCount)
	if created := p.Created(); !created.IsZero() {
		fmt.Fprintf(out, "  %s", created.Format("2006-01-02"))
	}
	fmt.Fprintln(out)

	preview, truncated := p.Preview()
	for _, line := range strings.Split(preview, "\n") {
		fmt.Fprintf(out, "   %s\n", line)
	}
	if truncated {
		fmt.Fprintln(out, "   Read more...")
	}
	fmt.Fprintln(out)
}

func printCards(out io.Writer, cards []*post.Card) {
	for _, card := range cards {
		printPost(out, card.Post())
	}
}

func printComments(out io.Writer, comments []post.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(out, "No comments yet.")
		return
	}
	for _, comment := range comments {
		fmt.Fprintf(out, "%s: %s\n", comment.User.DisplayName(), comment.Content)
	}
}

func printPageFooter(out io.Writer, meta pagination.Meta) {
	if meta.TotalPages > 1 {
		fmt.Fprintf(out, "Page %d of %d (%d total)\n", meta.Page, meta.TotalPages, meta.Total)
	}
}
