package publisher

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/lunch-line/internal/calendar"
	"github.com/pfrederiksen/lunch-line/internal/logger"
)

const (
	maxTweetLength = 280
	tweetDelay     = 2 * time.Second
)

// statusUpdater is the part of the Twitter statuses API used for posting
type statusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterPublisher posts one tweet per day of meals
type TwitterPublisher struct {
	statuses statusUpdater
	sleep    func(time.Duration)
}

// NewTwitterPublisher creates a Twitter publisher using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterPublisher() (*TwitterPublisher, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterPublisher{statuses: client.Statuses, sleep: time.Sleep}, nil
}

// Publish posts a tweet for each day covered by events
func (p *TwitterPublisher) Publish(events []calendar.Event) error {
	days := groupByDay(events)

	for i, day := range days {
		tweet := formatTweet(day)

		if _, _, err := p.statuses.Update(tweet, nil); err != nil {
			return fmt.Errorf("failed to post tweet for %s: %w", day[0].Day(), err)
		}
		logger.IncrCounter("publish.tweets")

		// Rate limiting: wait between tweets
		if i < len(days)-1 {
			p.sleep(tweetDelay)
		}
	}

	return nil
}

// groupByDay splits date-ordered events into runs sharing a day
func groupByDay(events []calendar.Event) [][]calendar.Event {
	var days [][]calendar.Event
	for _, evt := range events {
		if n := len(days); n > 0 && days[n-1][0].Day() == evt.Day() {
			days[n-1] = append(days[n-1], evt)
			continue
		}
		days = append(days, []calendar.Event{evt})
	}
	return days
}

// formatTweet formats one day's meals as a tweet
func formatTweet(day []calendar.Event) string {
	var tweet strings.Builder
	tweet.WriteString(fmt.Sprintf("School meals for %s\n\n", day[0].Date.Format("Mon, Jan 2")))

	for _, evt := range day {
		tweet.WriteString(fmt.Sprintf("%s %s\n", evt.Emoji, evt.Text))
	}

	tweet.WriteString("\n#SchoolLunch")

	// Twitter limit is 280 characters
	text := tweet.String()
	if utf8.RuneCountInString(text) > maxTweetLength {
		text = string([]rune(text)[:maxTweetLength-3]) + "..."
	}

	return text
}
