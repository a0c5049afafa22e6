package handlers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshitsaini01/incentum-main-sub000/apperrors"
	"github.com/harshitsaini01/incentum-main-sub000/models"
	"github.com/harshitsaini01/incentum-main-sub000/reconcile"
)

// idFilter matches a path id against the human-readable applicationId or,
// when it parses as an ObjectID, the surrogate _id.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$or": []bson.M{
			{"applicationId": id},
			{"_id": oid},
		}}
	}
	return bson.M{"applicationId": id}
}

func userIDFromContext(r *http.Request) (primitive.ObjectID, bool) {
	idStr, ok := r.Context().Value("userID").(string)
	if !ok || idStr == "" {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func principalFromContext(r *http.Request) (models.Principal, bool) {
	p, ok := r.Context().Value("principal").(models.Principal)
	return p, ok
}

func findCanonical(ctx context.Context, filter bson.M) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := applicationCollection.FindOne(ctx, filter).Decode(&app)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func findLegacy(ctx context.Context, filter bson.M) (*models.Form, error) {
	var form models.Form
	err := formCollection.FindOne(ctx, filter).Decode(&form)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// legacyUpdateFilter matches a legacy record by surrogate id and its raw
// stored status. The reconciler normalizes an empty status to submitted, but
// the concurrency guard has to match what is actually on disk: an empty or
// absent status field would never match an equality filter on "".
func legacyUpdateFilter(form *models.Form) bson.M {
	if form.Status == "" {
		return bson.M{
			"_id": form.ID,
			"$or": []bson.M{
				{"status": ""},
				{"status": bson.M{"$exists": false}},
			},
		}
	}
	return bson.M{"_id": form.ID, "status": form.Status}
}

// findEither resolves an id against the canonical store first, then the
// legacy store. At most one of the returned records is non-nil.
func findEither(ctx context.Context, id string) (*models.LoanApplication, *models.Form, error) {
	filter := idFilter(id)

	app, err := findCanonical(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	if app != nil {
		return app, nil, nil
	}

	form, err := findLegacy(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return nil, form, nil
}

// reconciledView normalizes whichever record was found.
func reconciledView(app *models.LoanApplication, form *models.Form) (reconcile.View, error) {
	switch {
	case app != nil:
		return reconcile.FromApplication(*app), nil
	case form != nil:
		return reconcile.FromForm(*form), nil
	default:
		return reconcile.View{}, apperrors.NotFound("application not found")
	}
}

// withoutInternalComments strips admin-only notes for user-facing responses.
func withoutInternalComments(view reconcile.View) reconcile.View {
	visible := make([]models.Comment, 0, len(view.Comments))
	for _, c := range view.Comments {
		if !c.IsInternal {
			visible = append(visible, c)
		}
	}
	view.Comments = visible
	return view
}
