// Package seed loads the demo categories, users and articles.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/SergeyParamoshkin/news/internal/model"
	"github.com/SergeyParamoshkin/news/internal/user"
)

// Target is a store the fixtures can be written to.
type Target interface {
	UpsertCategory(ctx context.Context, c *model.Category) error
	UpsertUser(ctx context.Context, u *model.User) error
	Insert(ctx context.Context, a *model.Article) error
}

// Dropper is implemented by stores that can clear their articles first.
type Dropper interface {
	DropNews(ctx context.Context) error
}

type Result struct {
	Categories int `json:"categories"`
	Users      int `json:"users"`
	Articles   int `json:"articles"`
}

// AdminID is the fixture administrator, handy for minting dev tokens.
const AdminID = "65f1c0de0000000000000001"

var Categories = []model.Category{
	{ID: "technology", Name: "Technology", Color: "bg-purple-500"},
	{ID: "business", Name: "Business", Color: "bg-green-500"},
	{ID: "sports", Name: "Sports", Color: "bg-orange-500"},
	{ID: "health", Name: "Health", Color: "bg-red-500"},
	{ID: "entertainment", Name: "Entertainment", Color: "bg-teal-500"},
}

var Users = []model.User{
	{ID: AdminID, Name: "Editor", Role: user.RoleAdmin},
	{ID: "65f1c0de0000000000000002", Name: "Dr. Sarah Chen", Role: user.RoleAuthor},
	{ID: "65f1c0de0000000000000003", Name: "Michael Thompson", Role: user.RoleAuthor},
	{ID: "65f1c0de0000000000000004", Name: "Emma Rodriguez", Role: user.RoleAuthor},
	{ID: "65f1c0de0000000000000005", Name: "Dr. James Wilson", Role: user.RoleAuthor},
	{ID: "65f1c0de0000000000000006", Name: "Lisa Chen", Role: user.RoleAuthor},
	{ID: "65f1c0de0000000000000007", Name: "Dr. Robert Kim", Role: user.RoleAuthor},
	{ID: "65f1c0de0000000000000008", Name: "David Martinez", Role: user.RoleAuthor},
	{ID: "65f1c0de0000000000000009", Name: "Carlos Mendez", Role: user.RoleAuthor},
}

// Articles returns fresh copies of the fixture articles.
func Articles() []*model.Article {
	fixtures := []struct {
		title, excerpt, content, category, author, image, published string
		views                                                       int64
		featured                                                    bool
	}{
		{
			title:     "The Future of AI: What's Next in 2024",
			excerpt:   "Exploring the latest developments in artificial intelligence and their impact on various industries.",
			content:   "Artificial Intelligence continues to evolve at a rapid pace, with new breakthroughs being announced almost daily. From advanced language models to computer vision systems, AI is transforming how we live and work. In 2024, we're seeing a shift towards more practical applications of AI in healthcare, finance, and manufacturing. Companies are increasingly focusing on responsible AI development and addressing ethical concerns...",
			category:  "technology",
			author:    "65f1c0de0000000000000002",
			image:     "https://images.unsplash.com/photo-1677442136019-21780ecad995",
			published: "2024-03-15T10:30:00Z",
			views:     1250,
			featured:  true,
		},
		{
			title:     "Global Markets React to New Economic Policies",
			excerpt:   "Major stock markets show mixed reactions to recent economic policy changes worldwide.",
			content:   "Global financial markets experienced significant volatility this week as investors reacted to new economic policies announced by major central banks. The Federal Reserve's decision to maintain current interest rates has been met with cautious optimism, while European markets showed signs of concern over inflation data...",
			category:  "business",
			author:    "65f1c0de0000000000000003",
			image:     "https://images.unsplash.com/photo-1611974789855-9c2a0a7236a3",
			published: "2024-03-14T15:45:00Z",
			views:     980,
		},
		{
			title:     "Olympic Games 2024: Preparations in Full Swing",
			excerpt:   "Paris gears up for the 2024 Olympic Games with innovative infrastructure projects.",
			content:   "With just months to go before the opening ceremony, Paris is transforming into a world-class sporting venue. The city's ambitious infrastructure projects are nearing completion, including the new Olympic Village and state-of-the-art sports facilities. Organizers are implementing sustainable practices throughout the event...",
			category:  "sports",
			author:    "65f1c0de0000000000000004",
			image:     "https://images.unsplash.com/photo-1531415074968-036ba1b575da",
			published: "2024-03-13T09:15:00Z",
			views:     2100,
			featured:  true,
		},
		{
			title:     "Breakthrough in Cancer Research",
			excerpt:   "Scientists discover promising new approach to cancer treatment.",
			content:   "A team of researchers has made a significant breakthrough in cancer treatment, developing a new method that targets cancer cells more effectively while reducing side effects. The study, published in a leading medical journal, shows promising results in early clinical trials...",
			category:  "health",
			author:    "65f1c0de0000000000000005",
			image:     "https://images.unsplash.com/photo-1576091160550-2173dba999ef",
			published: "2024-03-12T14:20:00Z",
			views:     3500,
			featured:  true,
		},
		{
			title:     "New Streaming Platform Shakes Up Entertainment Industry",
			excerpt:   "Tech giant launches revolutionary streaming service with unique features.",
			content:   "A major technology company has entered the streaming wars with an innovative platform that promises to change how we consume entertainment. The new service combines traditional streaming with interactive features and social elements, creating a more engaging viewing experience...",
			category:  "entertainment",
			author:    "65f1c0de0000000000000006",
			image:     "https://images.unsplash.com/photo-1593784991095-a205069470b6",
			published: "2024-03-11T11:00:00Z",
			views:     1800,
		},
		{
			title:     "Quantum Computing Milestone Achieved",
			excerpt:   "Researchers achieve quantum supremacy in solving complex problems.",
			content:   "Scientists have reached a significant milestone in quantum computing, demonstrating the ability to solve problems that would take classical computers thousands of years to complete. This breakthrough opens new possibilities for cryptography, drug discovery, and climate modeling...",
			category:  "technology",
			author:    "65f1c0de0000000000000007",
			image:     "https://images.unsplash.com/photo-1635070041078-e363dbe005cb",
			published: "2024-03-10T16:30:00Z",
			views:     4200,
			featured:  true,
		},
		{
			title:     "Sustainable Business Practices Gain Momentum",
			excerpt:   "Companies worldwide adopt eco-friendly initiatives.",
			content:   "A growing number of businesses are implementing sustainable practices as consumer demand for environmentally responsible products increases. From reducing carbon footprints to implementing circular economy principles, companies are finding innovative ways to operate sustainably...",
			category:  "business",
			author:    "65f1c0de0000000000000008",
			image:     "https://images.unsplash.com/photo-1542601906990-b4d3fb778b09",
			published: "2024-03-09T13:45:00Z",
			views:     1600,
		},
		{
			title:     "World Cup Qualifiers: Surprise Results",
			excerpt:   "Underdog teams make unexpected advances in World Cup qualifiers.",
			content:   "The World Cup qualifiers have produced several surprising results, with traditionally lower-ranked teams showing remarkable improvement. These unexpected outcomes are reshaping the landscape of international football and creating new rivalries...",
			category:  "sports",
			author:    "65f1c0de0000000000000009",
			image:     "https://images.unsplash.com/photo-1508098682722-e99c643e2f9f",
			published: "2024-03-08T10:15:00Z",
			views:     2800,
		},
	}

	out := make([]*model.Article, 0, len(fixtures))
	for _, f := range fixtures {
		published, err := time.Parse(time.RFC3339, f.published)
		if err != nil {
			panic(err)
		}
		out = append(out, &model.Article{
			Title:     f.title,
			Excerpt:   f.excerpt,
			Content:   f.content,
			Category:  f.category,
			Author:    f.author,
			Image:     f.image,
			Featured:  f.featured,
			Views:     f.views,
			Likes:     []string{},
			Comments:  []model.Comment{},
			CreatedAt: published,
			UpdatedAt: published,
		})
	}

	return out
}

// ErrCannotDrop is returned when drop is requested on a target that is not a
// Dropper.
var ErrCannotDrop = errors.New("seed: target cannot drop articles")

// Load writes the fixtures to t. With drop set, existing articles are removed
// first.
func Load(ctx context.Context, t Target, drop bool) (Result, error) {
	var res Result

	if drop {
		d, ok := t.(Dropper)
		if !ok {
			return res, ErrCannotDrop
		}
		if err := d.DropNews(ctx); err != nil {
			return res, err
		}
	}

	for i := range Categories {
		if err := t.UpsertCategory(ctx, &Categories[i]); err != nil {
			return res, err
		}
		res.Categories++
	}
	for i := range Users {
		if err := t.UpsertUser(ctx, &Users[i]); err != nil {
			return res, err
		}
		res.Users++
	}
	for _, a := range Articles() {
		if err := t.Insert(ctx, a); err != nil {
			return res, err
		}
		res.Articles++
	}

	return res, nil
}
