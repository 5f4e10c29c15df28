package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/arkanhadi/temanrasa/internal/adapters/api"
	"github.com/arkanhadi/temanrasa/internal/adapters/browser"
	"github.com/arkanhadi/temanrasa/internal/adapters/camera"
	filestore "github.com/arkanhadi/temanrasa/internal/adapters/storage/file"
	memstore "github.com/arkanhadi/temanrasa/internal/adapters/storage/memory"
	"github.com/arkanhadi/temanrasa/internal/app/admin"
	"github.com/arkanhadi/temanrasa/internal/app/capture"
	"github.com/arkanhadi/temanrasa/internal/app/chat"
	"github.com/arkanhadi/temanrasa/internal/app/interaction"
	"github.com/arkanhadi/temanrasa/internal/app/recommend"
	"github.com/arkanhadi/temanrasa/internal/app/session"
	"github.com/arkanhadi/temanrasa/internal/config"
	"github.com/arkanhadi/temanrasa/internal/domain"
)

func main() {
	// .env is optional, like any other local override
	_ = godotenv.Load()

	var (
		monitor   = flag.Bool("monitor", false, "watch the admin dashboard instead of chatting")
		login     = flag.String("login", "", "admin username to log in as (password read from stdin)")
		timeRange = flag.String("range", "30d", "dashboard time range")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage: file-backed state dir, in-memory when unavailable
	var (
		sessions domain.SessionStore
		tokens   domain.TokenStore
	)
	if store, err := filestore.NewStore(cfg.StateDir); err != nil {
		log.Printf("[STORE] state dir unavailable (%v), session will not survive this run", err)
		sessions = memstore.NewSessionStore()
		tokens = memstore.NewTokenStore()
	} else {
		sessions = store
		tokens = store
	}

	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout, tokens)
	emotions := api.NewEmotionService(client)
	chats := api.NewChatService(client)
	recsAPI := api.NewRecommendationService(client)
	adminAPI := api.NewAdminService(client)

	adminSvc := admin.NewService(adminAPI, emotions, recsAPI, tokens)

	if *login != "" {
		if err := runLogin(ctx, adminSvc, *login); err != nil {
			log.Fatalf("login: %v", err)
		}
		return
	}
	if *monitor {
		if err := runMonitor(ctx, adminSvc, cfg.DashboardPollSpec, *timeRange); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("monitor: %v", err)
		}
		return
	}

	var frames domain.FrameSource
	switch cfg.Camera.Kind {
	case config.CameraFile:
		log.Printf("[CAMERA] Using still file %s", cfg.Camera.StillPath)
		frames = camera.NewFileSource(cfg.Camera.StillPath)
	default:
		log.Printf("[CAMERA] Using MJPEG stream %s", cfg.Camera.StreamURL)
		frames = camera.NewMJPEGSource(cfg.Camera.StreamURL, cfg.RequestTimeout)
	}

	identity := session.NewIdentity(sessions)
	workflow := capture.NewWorkflow(frames, emotions, identity, cfg.CountdownSeconds)
	conv := chat.NewManager(chats)
	recs := recommend.NewCoordinator(recsAPI, recsAPI, browser.New())

	hooks := interaction.Hooks{
		Countdown: func(n int) { fmt.Printf("  %d...\n", n) },
		Result:    printResult,
		Failure: func(f *capture.Failure) {
			fmt.Printf("Deteksi gagal: %s\n", f.Message)
		},
	}
	facade := interaction.NewFacade(identity, workflow, conv, recs, hooks)

	if err := runInteractive(ctx, facade, emotions, chats); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func runLogin(ctx context.Context, svc *admin.Service, username string) error {
	fmt.Print("Password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return err
	}

	sess, err := svc.Login(ctx, username, strings.TrimSpace(password))
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s <%s>\n", sess.Username, sess.Email)
	return nil
}

func runMonitor(ctx context.Context, svc *admin.Service, spec, timeRange string) error {
	if !svc.Authenticated() {
		return errors.New("not logged in, run with -login <username> first")
	}
	return svc.Watch(ctx, spec, timeRange, printSnapshot)
}

func printSnapshot(snap *admin.Snapshot) {
	d := snap.Dashboard
	fmt.Printf("\n[%s] detections=%d (%s)  sessions=%d (%s)  messages=%d (%s)  clicks=%d (%s)  top=%s\n",
		snap.At.Format("15:04:05"),
		d.TotalDetections, d.Trends.Detections,
		d.UniqueSessions, d.Trends.Sessions,
		d.TotalMessages, d.Trends.Messages,
		d.TotalClicks, d.Trends.Clicks,
		d.MostCommonEmotion)

	if snap.Emotions != nil {
		for _, emotion := range domain.Emotions() {
			if n := snap.Emotions.EmotionCounts[emotion]; n > 0 {
				fmt.Printf("  %-10s %d\n", emotion, n)
			}
		}
	}
	for i, p := range snap.Popular {
		if i >= 5 {
			break
		}
		fmt.Printf("  #%d %s/%s %q (%d clicks)\n", i+1, p.Emotion, p.Category, p.Title, p.ClickCount)
	}
}

func printResult(result *domain.EmotionResult) {
	fmt.Printf("\nEmosi: %s (%.1f%%)", result.Emotion, result.Confidence*100)
	if !result.FaceDetected {
		fmt.Print("  [wajah tidak terdeteksi]")
	}
	fmt.Println()
	if result.InitialGreeting != "" {
		fmt.Printf("AI: %s\n", result.InitialGreeting)
	}
}

const usage = `commands:
  /detect              capture a photo and detect your emotion
  /recs                show recommendations for the current emotion
  /open <category> <n> open recommendation n (music, food, activity)
  /history             show this session's detections
  /chatlog             show this session's server-side chat log
  /reset               start over with a fresh session
  /quit
anything else is sent to the AI companion`

func runInteractive(ctx context.Context, facade *interaction.Facade, emotions *api.EmotionService, chats *api.ChatService) error {
	fmt.Printf("temanrasa — session %s\n%s\n", facade.SessionID(), usage)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/detect":
			done, err := facade.StartCapture(ctx)
			if err != nil {
				fmt.Println("deteksi sedang berjalan")
				continue
			}
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		case line == "/recs":
			printRecommendations(facade)
		case strings.HasPrefix(line, "/open "):
			openRecommendation(ctx, facade, line)
		case line == "/history":
			printHistory(ctx, facade, emotions)
		case line == "/chatlog":
			printChatLog(ctx, facade, chats)
		case line == "/reset":
			id := facade.ResetAll()
			fmt.Printf("sesi baru: %s\n", id)
		default:
			if err := facade.SendChat(ctx, line); err != nil {
				if errors.Is(err, interaction.ErrNoDetection) {
					fmt.Println("tangkap foto dulu dengan /detect")
				} else {
					fmt.Println("AI sedang mengetik, tunggu sebentar")
				}
				continue
			}
			printLastReply(facade)
		}
	}
}

func printRecommendations(facade *interaction.Facade) {
	set := facade.Recommendations().Current()
	if set == nil {
		fmt.Println("belum ada rekomendasi")
		return
	}
	for _, cat := range []domain.RecommendationCategory{domain.CategoryMusic, domain.CategoryFood, domain.CategoryActivity} {
		items := set.Items(cat)
		if len(items) == 0 {
			continue
		}
		fmt.Printf("%s:\n", cat)
		for i, item := range items {
			fmt.Printf("  %d. %s — %s\n", i+1, item.Title, item.Description)
		}
	}
}

func openRecommendation(ctx context.Context, facade *interaction.Facade, line string) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		fmt.Println("pakai: /open <category> <n>")
		return
	}
	set := facade.Recommendations().Current()
	if set == nil {
		fmt.Println("belum ada rekomendasi")
		return
	}

	items := set.Items(domain.RecommendationCategory(parts[1]))
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 || n > len(items) {
		fmt.Println("nomor tidak valid")
		return
	}

	if err := facade.ClickRecommendation(ctx, items[n-1]); err != nil {
		fmt.Println("tangkap foto dulu dengan /detect")
	}
}

func printHistory(ctx context.Context, facade *interaction.Facade, emotions *api.EmotionService) {
	logs, err := emotions.EmotionHistory(ctx, facade.SessionID())
	if err != nil {
		fmt.Println("riwayat tidak tersedia")
		return
	}
	for _, l := range logs {
		fmt.Printf("  %s  %-10s %.1f%%\n", l.Timestamp.Format("15:04:05"), l.Emotion, l.Confidence*100)
	}
}

func printChatLog(ctx context.Context, facade *interaction.Facade, chats *api.ChatService) {
	logs, err := chats.History(ctx, facade.SessionID(), 0)
	if err != nil {
		fmt.Println("riwayat chat tidak tersedia")
		return
	}
	for _, l := range logs {
		fmt.Printf("  %s  kamu: %s\n            AI: %s\n", l.Timestamp.Format("15:04:05"), l.Message, l.Response)
		if l.IsCrisis {
			fmt.Println("            [ditandai sebagai krisis]")
		}
	}
}

func printLastReply(facade *interaction.Facade) {
	messages := facade.Conversation().Messages()
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	if last.Author != domain.RoleAssistant {
		return
	}

	fmt.Printf("AI: %s\n", last.Content)
	if last.Emergency {
		for _, h := range last.Hotlines {
			fmt.Printf("  ⚠ %s: %s\n", h.Name, h.Number)
		}
	}
}
