package mongo

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/repositories"
)

// Messages are kept as BSON documents so they stay readable in the shell.
type chatDoc struct {
	ID        string     `bson:"id"`
	UserID    string     `bson:"userId"`
	Messages  []bson.Raw `bson:"messages"`
	Tagline   string     `bson:"tagline"`
	Chain     *string    `bson:"chain,omitempty"`
	UpdatedAt int64      `bson:"updatedAt"`
}

func (d chatDoc) model() (models.Chat, error) {
	msgs := make([]json.RawMessage, 0, len(d.Messages))
	for _, m := range d.Messages {
		b, err := bson.MarshalExtJSON(m, false, false)
		if err != nil {
			return models.Chat{}, fmt.Errorf("chat %s: message: %w", d.ID, err)
		}
		msgs = append(msgs, b)
	}
	return models.Chat{
		ID:        d.ID,
		UserID:    d.UserID,
		Messages:  msgs,
		Tagline:   d.Tagline,
		Chain:     d.Chain,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func toBSON(msg json.RawMessage) (bson.Raw, error) {
	var doc bson.Raw
	if err := bson.UnmarshalExtJSON(msg, false, &doc); err != nil {
		return nil, fmt.Errorf("message must be a JSON object: %w", err)
	}
	return doc, nil
}

func toBSONAll(msgs []json.RawMessage) ([]bson.Raw, error) {
	out := make([]bson.Raw, 0, len(msgs))
	for _, m := range msgs {
		doc, err := toBSON(m)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

type chatRepo struct {
	col *mongo.Collection
}

func NewChatRepo(db *mongo.Database) repositories.Chats {
	return &chatRepo{col: db.Collection(ChatsCollection)}
}

func (r *chatRepo) AddChat(ctx context.Context, c models.NewChat) (*models.Chat, error) {
	msgs, err := toBSONAll(c.Messages)
	if err != nil {
		return nil, err
	}
	doc := chatDoc{
		ID:        c.ID,
		UserID:    c.UserID,
		Messages:  msgs,
		Tagline:   c.Tagline,
		Chain:     c.Chain,
		UpdatedAt: now(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	out, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatRepo) GetChat(ctx context.Context, id, userID string) (*models.Chat, error) {
	var doc chatDoc
	if err := r.col.FindOne(ctx, bson.M{"id": id, "userId": userID}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	out, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatRepo) FindChatsByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}),
	)
	docs, err := all[chatDoc](ctx, cur, err)
	if err != nil {
		return nil, err
	}

	out := make([]models.Chat, 0, len(docs))
	for _, d := range docs {
		c, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *chatRepo) UpdateChatTagline(ctx context.Context, id, userID, tagline string) (bool, error) {
	return r.set(ctx, id, userID, bson.M{"tagline": tagline})
}

func (r *chatRepo) UpdateChatChain(ctx context.Context, id, userID, chain string) (bool, error) {
	return r.set(ctx, id, userID, bson.M{"chain": chain})
}

func (r *chatRepo) AddMessageToChat(ctx context.Context, id, userID string, message json.RawMessage) (bool, error) {
	doc, err := toBSON(message)
	if err != nil {
		return false, err
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"id": id, "userId": userID},
		bson.M{
			"$push": bson.M{"messages": doc},
			"$set":  bson.M{"updatedAt": now()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *chatRepo) UpdateChatMessages(ctx context.Context, id, userID string, messages []json.RawMessage, chain *string) (bool, error) {
	msgs, err := toBSONAll(messages)
	if err != nil {
		return false, err
	}
	fields := bson.M{"messages": msgs}
	if chain != nil {
		fields["chain"] = *chain
	}
	return r.set(ctx, id, userID, fields)
}

func (r *chatRepo) DeleteChat(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *chatRepo) set(ctx context.Context, id, userID string, fields bson.M) (bool, error) {
	fields["updatedAt"] = now()
	res, err := r.col.UpdateOne(ctx, bson.M{"id": id, "userId": userID}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
