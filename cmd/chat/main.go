// Package main provides a terminal client for the chat API.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/litbot/litbot/internal/client"
	"github.com/litbot/litbot/internal/model"
	"github.com/litbot/litbot/internal/session"
	"github.com/litbot/litbot/pkg/logger"
)

const usage = `Commands:
  /new              start a new chat
  /list             list chats
  /switch <n>       switch to chat n (from /list)
  /delete <n>       delete chat n
  /up, /down        rate the last answer
  /comment <text>   leave a comment on the last answer
  /quit             exit
Anything else is sent as a question.`

func main() {
	addr := flag.String("addr", "http://localhost:8080", "chat API base URL")
	flag.Parse()

	log := logger.Nop()
	store := session.NewStore()
	c := client.New(*addr, store, log)

	printed := 0
	c.OnUpdate = func(full string) {
		// Print only what the last render has not shown yet. The store keeps
		// the full buffer; this delta is display-only.
		if len(full) > printed {
			fmt.Print(full[printed:])
			printed = len(full)
		}
	}

	fmt.Println(store.Active().Messages[0].Content)
	fmt.Println()
	fmt.Println(usage)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(c, store, line); quit {
				return
			}
			continue
		}

		printed = 0
		if err := c.Send(context.Background(), line); err != nil {
			fmt.Printf("\nA apărut o eroare: %v\n", err)
			continue
		}
		fmt.Println()
	}
}

func runCommand(c *client.Client, store *session.Store, line string) (quit bool) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/new":
		store.NewSession()
		fmt.Println("started a new chat")

	case "/list":
		for i, sess := range store.List() {
			marker := " "
			if sess.ID == store.ActiveID() {
				marker = "*"
			}
			fmt.Printf("%s %d. %s\n", marker, i+1, sess.Title)
		}

	case "/switch":
		if sess := sessionAt(store, args); sess != nil {
			store.Select(sess.ID)
			fmt.Printf("switched to %q\n", sess.Title)
		}

	case "/delete":
		if sess := sessionAt(store, args); sess != nil {
			store.Delete(sess.ID)
			fmt.Printf("deleted %q\n", sess.Title)
		}

	case "/up", "/down":
		value := model.FeedbackPositive
		if cmd == "/down" {
			value = model.FeedbackNegative
		}
		if id := lastAssistantID(store); id != "" {
			if err := c.Feedback(context.Background(), id, value); err != nil {
				fmt.Printf("feedback failed: %v\n", err)
			}
		}

	case "/comment":
		if len(args) == 0 {
			fmt.Println("usage: /comment <text>")
			break
		}
		if id := lastAssistantID(store); id != "" {
			c.Comment(id, strings.Join(args, " "))
			if err := c.SubmitComment(context.Background(), id); err != nil {
				fmt.Printf("comment failed: %v\n", err)
			} else {
				fmt.Println("Mulțumim pentru feedback!")
			}
		}

	default:
		fmt.Println(usage)
	}
	return false
}

func sessionAt(store *session.Store, args []string) *model.ChatSession {
	sessions := store.List()
	if len(args) != 1 {
		fmt.Println("usage: /switch|/delete <n>")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(sessions) {
		fmt.Println("no such chat")
		return nil
	}
	return sessions[n-1]
}

func lastAssistantID(store *session.Store) string {
	sess := store.Active()
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		msg := sess.Messages[i]
		if msg.Role == model.RoleAssistant && msg.Content != "" {
			return msg.ID
		}
	}
	fmt.Println("no answer to rate yet")
	return ""
}
